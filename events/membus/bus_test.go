package membus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lookids/lookids/events"
	"github.com/lookids/lookids/events/membus"
)

func TestBus_PublishSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers a published message to the subscriber", func(t *testing.T) {
		bus := membus.NewBus()

		received := make(chan any, 1)

		unsubscribe := bus.Subscribe("test.topic", func(_ string, message any) {
			received <- message
		})
		defer unsubscribe()

		err := bus.Publish(ctx, "test.topic", "hello")
		require.NoError(t, err)

		select {
		case message := <-received:
			require.Equal(t, "hello", message)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for message")
		}
	})

	t.Run("delivers messages in publish order", func(t *testing.T) {
		bus := membus.NewBus()

		received := make(chan int, 3)

		unsubscribe := bus.Subscribe("test.topic", func(_ string, message any) {
			received <- message.(int)
		})
		defer unsubscribe()

		for i := 1; i <= 3; i++ {
			require.NoError(t, bus.Publish(ctx, "test.topic", i))
		}

		for want := 1; want <= 3; want++ {
			select {
			case got := <-received:
				require.Equal(t, want, got)
			case <-time.After(5 * time.Second):
				t.Fatalf("timed out waiting for message %d", want)
			}
		}
	})

	t.Run("does not deliver to other topics", func(t *testing.T) {
		bus := membus.NewBus()

		received := make(chan any, 1)

		unsubscribe := bus.Subscribe("test.topic", func(_ string, message any) {
			received <- message
		})
		defer unsubscribe()

		require.NoError(t, bus.Publish(ctx, "other.topic", "noise"))
		require.NoError(t, bus.Publish(ctx, "test.topic", "signal"))

		select {
		case message := <-received:
			require.Equal(t, "signal", message)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for message")
		}
	})

	t.Run("unsubscribed handlers stop receiving", func(t *testing.T) {
		bus := membus.NewBus()

		received := make(chan any, 2)

		unsubscribe := bus.Subscribe("test.topic", func(_ string, message any) {
			received <- message
		})

		require.NoError(t, bus.Publish(ctx, "test.topic", "before"))

		select {
		case message := <-received:
			require.Equal(t, "before", message)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for message")
		}

		unsubscribe()

		require.NoError(t, bus.Publish(ctx, "test.topic", "after"))

		select {
		case message := <-received:
			t.Fatalf("received message after unsubscribe: %v", message)
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("rejects publishing on a cancelled context", func(t *testing.T) {
		bus := membus.NewBus()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := bus.Publish(cancelled, "test.topic", "late")
		require.Error(t, err)

		var publishErr *events.PublishError
		require.ErrorAs(t, err, &publishErr)
		require.Equal(t, "test.topic", publishErr.Topic)
		require.ErrorIs(t, err, context.Canceled)
	})
}
