package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(hub, nil)
	second := NewClient(hub, nil)
	hub.Register <- first
	hub.Register <- second

	hub.Broadcast <- []byte("hello")

	assert.Equal(t, []byte("hello"), receive(t, first.Send))
	assert.Equal(t, []byte("hello"), receive(t, second.Send))
}

func TestHub_PostSubscriptions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	subscriber := NewClient(hub, nil)
	bystander := NewClient(hub, nil)
	hub.Register <- subscriber
	hub.Register <- bystander

	hub.Subscribe(subscriber, "post-1")
	hub.BroadcastTo("post-1", []byte("scoped"))

	assert.Equal(t, []byte("scoped"), receive(t, subscriber.Send))
	assert.Empty(t, bystander.Send)

	hub.Unsubscribe(subscriber, "post-1")
	hub.BroadcastTo("post-1", []byte("gone"))
	assert.Empty(t, subscriber.Send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil)
	hub.Register <- client
	hub.Unregister <- client

	// The hub closes Send on unregister; receiving yields the zero value.
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-client.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
