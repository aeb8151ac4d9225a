package mqtt

import "fmt"

// Topic prefixes per the Tasmota topic convention used by the NeoPool
// controller firmware. All device traffic lives under three fixed prefixes
// templated on the device's topic root:
//
//	tele/{topic}/...  telemetry published by the device
//	cmnd/{topic}/...  commands sent to the device
//	stat/{topic}/...  command results published by the device
const (
	// TopicPrefixTelemetry is the prefix for device-published telemetry.
	TopicPrefixTelemetry = "tele"

	// TopicPrefixCommand is the prefix for commands to the device.
	TopicPrefixCommand = "cmnd"

	// TopicPrefixStat is the prefix for command acknowledgements.
	TopicPrefixStat = "stat"

	// TopicPrefixBridge is the base for the bridge's own topics.
	TopicPrefixBridge = "neopool/bridge"
)

// Topics provides builders for the MQTT topics used by the bridge.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	sensorTopic := topics.Telemetry("SmartPool")
//	// Returns: "tele/SmartPool/SENSOR"
type Topics struct{}

// Telemetry returns the topic carrying the device's JSON sensor documents.
//
// Example: tele/SmartPool/SENSOR
func (Topics) Telemetry(device string) string {
	return fmt.Sprintf("%s/%s/SENSOR", TopicPrefixTelemetry, device)
}

// LWT returns the device's last-will liveness topic.
// Payload is the plain text "Online" or "Offline".
//
// Example: tele/SmartPool/LWT
func (Topics) LWT(device string) string {
	return fmt.Sprintf("%s/%s/LWT", TopicPrefixTelemetry, device)
}

// Command returns the topic for one named command to the device.
//
// Example: cmnd/SmartPool/NPFiltration
func (Topics) Command(device, command string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixCommand, device, command)
}

// Result returns the topic on which the device acknowledges commands.
// The bridge does not consume this topic; it is exposed for monitoring.
//
// Example: stat/SmartPool/RESULT
func (Topics) Result(device string) string {
	return fmt.Sprintf("%s/%s/RESULT", TopicPrefixStat, device)
}

// BridgeStatus returns the bridge's own status topic (LWT and
// online/offline announcements).
//
// Example: neopool/bridge/status
func (Topics) BridgeStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixBridge)
}
