package api

import (
	"testing"

	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/infrastructure/config"
	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/neopool"
)

func newTestHub() *Hub {
	return NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, testLogger())
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := newTestHub()
	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 1),
		subscriptions: make(map[string]struct{}),
	}

	hub.Register(client)
	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)
	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d, want 0", hub.ClientCount())
	}

	// Second unregister must not panic on a closed send channel.
	hub.Unregister(client)
}

func TestHub_BroadcastRespectsSubscriptions(t *testing.T) {
	hub := newTestHub()

	subscribed := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 1),
		subscriptions: map[string]struct{}{ChannelStateChanged: {}},
	}
	unsubscribed := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 1),
		subscriptions: make(map[string]struct{}),
	}
	hub.Register(subscribed)
	hub.Register(unsubscribed)

	hub.StateChanged(neopool.Snapshot{UniqueID: "neopool_mqtt_ABC123_water_temperature", Value: 28.5})

	select {
	case data := <-subscribed.send:
		if len(data) == 0 {
			t.Error("subscribed client received empty message")
		}
	default:
		t.Error("subscribed client received nothing")
	}

	select {
	case <-unsubscribed.send:
		t.Error("unsubscribed client should not receive broadcasts")
	default:
	}
}

func TestHub_BroadcastSkipsFullBuffers(t *testing.T) {
	hub := newTestHub()

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 1),
		subscriptions: map[string]struct{}{ChannelAvailabilityChanged: {}},
	}
	client.send <- []byte("stale")
	hub.Register(client)

	// Full buffer, the broadcast is dropped rather than blocking.
	hub.AvailabilityChanged(neopool.Snapshot{UniqueID: "neopool_mqtt_ABC123_filtration", Available: false})

	if got := <-client.send; string(got) != "stale" {
		t.Errorf("buffer head = %q, want the original message", got)
	}
}
