package neopool

import "fmt"

// Device identifies one physical NeoPool controller on the bus.
type Device struct {
	// Name is the display name ("NeoPool" by default).
	Name string

	// Topic is the Tasmota topic root, e.g. "SmartPool" in
	// tele/SmartPool/SENSOR.
	Topic string

	// NodeID is the controller's stable identity from
	// NeoPool.Powerunit.NodeID. It distinguishes multiple physical
	// controllers and anchors unique entity IDs.
	NodeID string

	// IDPrefix overrides UniqueIDPrefix when non-empty.
	IDPrefix string
}

// Validate checks the device has a usable topic root and identity.
func (d Device) Validate() error {
	if d.Topic == "" {
		return fmt.Errorf("%w: empty topic root", ErrInvalidDevice)
	}
	if !ValidNodeID(d.NodeID) {
		return fmt.Errorf("%w: nodeid %q", ErrInvalidDevice, d.NodeID)
	}
	return nil
}

// UniqueID builds the persistent identifier for one entity key:
// {prefix}{nodeid}_{key}. The format must stay stable across catalog
// changes.
func (d Device) UniqueID(key string) string {
	prefix := d.IDPrefix
	if prefix == "" {
		prefix = UniqueIDPrefix
	}
	return prefix + d.NodeID + "_" + key
}

// TelemetryTopic is the device's JSON telemetry topic.
func (d Device) TelemetryTopic() string {
	return fmt.Sprintf("tele/%s/SENSOR", d.Topic)
}

// LivenessTopic is the device's last-will topic.
func (d Device) LivenessTopic() string {
	return fmt.Sprintf("tele/%s/LWT", d.Topic)
}

// CommandTopic is the outbound topic for one command name.
func (d Device) CommandTopic(command string) string {
	return fmt.Sprintf("cmnd/%s/%s", d.Topic, command)
}

// ResultTopic carries command acknowledgements. The bridge does not
// consume it; it is exposed for diagnostics.
func (d Device) ResultTopic() string {
	return fmt.Sprintf("stat/%s/RESULT", d.Topic)
}
