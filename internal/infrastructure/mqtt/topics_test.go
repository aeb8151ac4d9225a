package mqtt

import "testing"

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "telemetry", got: topics.Telemetry("SmartPool"), want: "tele/SmartPool/SENSOR"},
		{name: "lwt", got: topics.LWT("SmartPool"), want: "tele/SmartPool/LWT"},
		{name: "command", got: topics.Command("SmartPool", "NPFiltration"), want: "cmnd/SmartPool/NPFiltration"},
		{name: "result", got: topics.Result("SmartPool"), want: "stat/SmartPool/RESULT"},
		{name: "bridge status", got: topics.BridgeStatus(), want: "neopool/bridge/status"},
		{name: "custom topic root", got: topics.Telemetry("Piscina"), want: "tele/Piscina/SENSOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPublish_Validation(t *testing.T) {
	// A zero-value client is never connected; validation errors must
	// surface before any connection check for bad inputs.
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Publish("", []byte("1"), 0, false); err != ErrInvalidTopic {
		t.Errorf("Publish(empty topic) error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("cmnd/SmartPool/NPLight", []byte("1"), 3, false); err != ErrInvalidQoS {
		t.Errorf("Publish(qos 3) error = %v, want ErrInvalidQoS", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Subscribe("", 0, func(string, []byte) error { return nil }); err != ErrInvalidTopic {
		t.Errorf("Subscribe(empty topic) error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("tele/SmartPool/SENSOR", 3, func(string, []byte) error { return nil }); err != ErrInvalidQoS {
		t.Errorf("Subscribe(qos 3) error = %v, want ErrInvalidQoS", err)
	}
}

func TestSubscriptionTracking(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if c.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", c.SubscriptionCount())
	}
	if c.HasSubscription("tele/SmartPool/SENSOR") {
		t.Error("HasSubscription() = true for untracked topic")
	}
}
