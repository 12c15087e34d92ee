package events

import (
	"context"
	"fmt"
)

// Publisher emits an event to a topic with at-least-once semantics.
// Implementations report emit failures as *PublishError so callers can
// tell infrastructure failures apart from domain errors.
type Publisher interface {
	Publish(ctx context.Context, topic string, message any) (err error)
}

// Subscriber registers a handler for a topic. Messages for a single
// subscription are delivered one at a time, in publish order.
type Subscriber interface {
	Subscribe(topic string, handler func(topic string, message any)) (unsubscribe func())
}

// PublishError is the single error kind for a failed emit. The event has
// not left the boundary; the triggering request must fail.
type PublishError struct {
	Topic string
	Cause error
}

func (err *PublishError) Error() string {
	return fmt.Sprintf("failed to publish to topic %q: %v", err.Topic, err.Cause)
}

func (err *PublishError) Unwrap() error {
	return err.Cause
}
