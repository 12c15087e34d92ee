package membus

import (
	"context"

	"github.com/juju/pubsub/v2"

	"github.com/lookids/lookids/events"
)

// Bus is an in-process event bus backed by a pubsub SimpleHub. Every
// subscription gets its own delivery queue, so a subscriber sees the
// messages of its topic serialized in publish order while separate
// subscribers run independently.
type Bus struct {
	hub *pubsub.SimpleHub
}

var (
	_ events.Publisher  = (*Bus)(nil)
	_ events.Subscriber = (*Bus)(nil)
)

func NewBus() *Bus {
	return &Bus{hub: pubsub.NewSimpleHub(nil)}
}

func (bus *Bus) Publish(ctx context.Context, topic string, message any) error {
	if err := ctx.Err(); err != nil {
		return &events.PublishError{Topic: topic, Cause: err}
	}

	bus.hub.Publish(topic, message)

	return nil
}

func (bus *Bus) Subscribe(topic string, handler func(topic string, message any)) func() {
	return bus.hub.Subscribe(topic, func(t string, data interface{}) {
		handler(t, data)
	})
}
