package neopool

// Kind identifies the platform an entity is exposed as. The values
// mirror the host platform's entity domains.
type Kind string

// Supported entity kinds.
const (
	KindSensor       Kind = "sensor"
	KindBinarySensor Kind = "binary_sensor"
	KindSwitch       Kind = "switch"
	KindNumber       Kind = "number"
	KindButton       Kind = "button"
	KindSelect       Kind = "select"
)

// Transform converts a raw resolved telemetry value into the typed
// value an entity caches. Returning nil means "no update": the entity
// keeps its previous value and does not notify. Transforms must be
// pure; they run on MQTT delivery goroutines.
type Transform func(raw any) any

// Descriptor is the static, immutable configuration row for one
// entity. Descriptors are defined once in the catalog at process start
// and parameterize exactly one Entity per device.
type Descriptor struct {
	// Key is the stable identifier fragment used to build the
	// persistent unique ID. Never rename a key: it backs durable
	// entity identity in downstream systems.
	Key string

	// Name is the human-readable label.
	Name string

	// Kind selects the platform behavior.
	Kind Kind

	// StatePath is the dotted path into the telemetry document for
	// inbound state. Empty for write-only entities (buttons).
	StatePath string

	// Command is the outbound command name, empty for read-only
	// entities.
	Command string

	// CommandTemplate optionally wraps the rendered value, e.g.
	// "{value} %". Numbers only.
	CommandTemplate string

	// Payload is the fixed payload a button publishes on press.
	Payload string

	// PayloadOn and PayloadOff are the switch command payloads.
	// Empty values default to "1"/"0".
	PayloadOn  string
	PayloadOff string

	// Transform overrides the kind default conversion. Binary kinds
	// default to strict bit decoding, numbers to float coercion,
	// everything else to identity.
	Transform Transform

	// Inverted negates boolean results after the transform. Used for
	// fields where 0 means "good" (flow sensors, tank levels).
	Inverted bool

	// Min, Max, and Step bound and granularize number entities. Step
	// also selects integer vs. float command rendering.
	Min, Max, Step float64

	// Options maps raw telemetry values to option labels for selects.
	// The reverse lookup turns a chosen label back into the command
	// payload.
	Options map[int]string

	// Unit is the unit of measurement, if any.
	Unit string

	// DeviceClass is the host platform device class hint, if any.
	DeviceClass string

	// Diagnostic marks entities that describe the controller itself
	// rather than the pool water.
	Diagnostic bool
}

// Readable reports whether the descriptor consumes telemetry.
func (d Descriptor) Readable() bool {
	return d.StatePath != ""
}

// Writable reports whether the descriptor issues commands.
func (d Descriptor) Writable() bool {
	return d.Command != ""
}

// Named transform constructors. Keeping transforms as small named
// builders (rather than ad-hoc closures in the catalog) keeps the
// tables data-only and the conversions individually testable.

// FloatValue coerces the raw value to float64, skipping the update on
// unparsable input.
func FloatValue() Transform {
	return func(raw any) any {
		if f, ok := ToFloat(raw); ok {
			return f
		}
		return nil
	}
}

// IntValue coerces the raw value to int, truncating toward zero.
func IntValue() Transform {
	return func(raw any) any {
		if n, ok := ToInt(raw); ok {
			return n
		}
		return nil
	}
}

// BitBool strictly decodes 0/1 telemetry, skipping ambiguous input.
func BitBool() Transform {
	return func(raw any) any {
		if b, ok := BitToBool(raw); ok {
			return b
		}
		return nil
	}
}

// RuntimeHours parses the controller's "<days>T<hh>:<mm>:<ss>" runtime
// counters into fractional hours.
func RuntimeHours() Transform {
	return func(raw any) any {
		s, ok := raw.(string)
		if !ok {
			return nil
		}
		if hours, ok := ParseRuntimeDuration(s); ok {
			return hours
		}
		return nil
	}
}

// IntLabel maps an integer-coded telemetry value to its label.
// Unknown codes skip the update rather than exposing a raw number.
func IntLabel(m map[int]string) Transform {
	return func(raw any) any {
		n, ok := ToInt(raw)
		if !ok {
			return nil
		}
		if label, ok := m[n]; ok {
			return label
		}
		return nil
	}
}

// StringLabel maps a string-coded telemetry value to its label.
func StringLabel(m map[string]string) Transform {
	return func(raw any) any {
		s, ok := raw.(string)
		if !ok {
			return nil
		}
		if label, ok := m[s]; ok {
			return label
		}
		return nil
	}
}
