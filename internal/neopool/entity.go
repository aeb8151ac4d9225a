package neopool

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Quality-of-service levels per topic role. Liveness messages are
// retained by the broker and delivered at least once so a restarted
// bridge learns availability immediately; commands are fire-and-forget
// plain strings the controller acknowledges on stat/{topic}/RESULT.
const (
	livenessQoS  byte = 1
	telemetryQoS byte = 0
	commandQoS   byte = 0
)

// Snapshot is an immutable copy of one entity's externally visible
// state, safe to hand to sinks and API encoders.
type Snapshot struct {
	UniqueID    string    `json:"unique_id"`
	Key         string    `json:"key"`
	Kind        Kind      `json:"kind"`
	Name        string    `json:"name"`
	Value       any       `json:"value"`
	Available   bool      `json:"available"`
	Unit        string    `json:"unit,omitempty"`
	DeviceClass string    `json:"device_class,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sink receives entity notifications. Implementations must be safe for
// concurrent use; notifications arrive on MQTT delivery goroutines.
//
// Liveness notifications are intentionally not de-duplicated: every
// LWT message produces an AvailabilityChanged call even when the flag
// is unchanged.
type Sink interface {
	StateChanged(snap Snapshot)
	AvailabilityChanged(snap Snapshot)
}

// Entity is the live runtime object bound to one telemetry field or
// command. It owns its subscription lifecycle:
//
//	detached -> attached(unavailable) -> attached(available)
//	         <-> attached(unavailable) -> detached
//
// Each entity is mutated only by its own transport callbacks and
// action methods; the mutex serializes those against each other since
// paho delivers messages on library goroutines.
type Entity struct {
	desc Descriptor
	dev  Device
	tr   Transport
	sink Sink

	mu        sync.Mutex
	value     any
	available bool
	updatedAt time.Time
	subs      []Unsubscribe
}

// NewEntity creates a detached entity. Call Attach to start receiving
// telemetry.
func NewEntity(desc Descriptor, dev Device, tr Transport, sink Sink) *Entity {
	return &Entity{
		desc: desc,
		dev:  dev,
		tr:   tr,
		sink: sink,
	}
}

// Descriptor returns the entity's static configuration.
func (e *Entity) Descriptor() Descriptor {
	return e.desc
}

// UniqueID returns the persistent identifier for this entity.
func (e *Entity) UniqueID() string {
	return e.dev.UniqueID(e.desc.Key)
}

// Value returns the last resolved value, nil until the first
// successful resolution.
func (e *Entity) Value() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Available reports the entity's availability. Buttons are stateless
// actuators and always report available; every other kind gates on the
// device liveness signal and defaults to unavailable.
func (e *Entity) Available() bool {
	if e.desc.Kind == KindButton {
		return true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

// Snapshot returns a copy of the externally visible state.
func (e *Entity) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Entity) snapshotLocked() Snapshot {
	available := e.available
	if e.desc.Kind == KindButton {
		available = true
	}
	return Snapshot{
		UniqueID:    e.dev.UniqueID(e.desc.Key),
		Key:         e.desc.Key,
		Kind:        e.desc.Kind,
		Name:        e.desc.Name,
		Value:       e.value,
		Available:   available,
		Unit:        e.desc.Unit,
		DeviceClass: e.desc.DeviceClass,
		UpdatedAt:   e.updatedAt,
	}
}

// Attach subscribes the entity to the device's liveness topic and, for
// readable entities, to its telemetry topic. The entity starts
// unavailable until the first liveness signal arrives. On error any
// partial subscriptions are released.
func (e *Entity) Attach() error {
	unsub, err := e.tr.Subscribe(e.dev.LivenessTopic(), livenessQoS, e.handleLiveness)
	if err != nil {
		return fmt.Errorf("attach %s: %w", e.UniqueID(), err)
	}
	e.addSub(unsub)

	if e.desc.Readable() {
		unsub, err = e.tr.Subscribe(e.dev.TelemetryTopic(), telemetryQoS, e.handleTelemetry)
		if err != nil {
			e.Detach()
			return fmt.Errorf("attach %s: %w", e.UniqueID(), err)
		}
		e.addSub(unsub)
	}
	return nil
}

// Detach releases every active subscription exactly once and clears
// the handle list. Safe to call repeatedly or with none active.
func (e *Entity) Detach() {
	e.mu.Lock()
	subs := e.subs
	e.subs = nil
	e.mu.Unlock()

	for _, unsub := range subs {
		if unsub != nil {
			_ = unsub()
		}
	}
}

// SubscriptionCount returns the number of held subscription handles.
func (e *Entity) SubscriptionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

func (e *Entity) addSub(unsub Unsubscribe) {
	e.mu.Lock()
	e.subs = append(e.subs, unsub)
	e.mu.Unlock()
}

// handleLiveness processes one LWT message. Exact match on "Online"
// marks the entity available; any other payload, recognized or not,
// marks it unavailable. The sink is notified on every message, without
// de-duplication, so downstream consumers see each liveness event.
func (e *Entity) handleLiveness(_ string, payload []byte) {
	online := strings.TrimSpace(string(payload)) == PayloadOnline

	e.mu.Lock()
	e.available = online
	e.updatedAt = time.Now().UTC()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if e.sink != nil {
		e.sink.AvailabilityChanged(snap)
	}
}

// handleTelemetry processes one SENSOR document. Malformed JSON,
// absent paths, and transform rejections leave the cached value
// untouched and produce no notification. A valid update also marks the
// entity available, since a device that talks is a device that is up.
func (e *Entity) handleTelemetry(_ string, payload []byte) {
	doc, ok := ParseJSONPayload(payload)
	if !ok {
		return
	}

	raw, ok := Resolve(doc, e.desc.StatePath)
	if !ok {
		return
	}

	value := e.applyTransform(raw)
	if value == nil {
		return
	}
	if b, isBool := value.(bool); isBool && e.desc.Inverted {
		value = !b
	}

	e.mu.Lock()
	e.value = value
	e.available = true
	e.updatedAt = time.Now().UTC()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if e.sink != nil {
		e.sink.StateChanged(snap)
	}
}

// applyTransform runs the configured transform, falling back to the
// kind default: strict bit decoding for binary kinds, float coercion
// for numbers, identity for everything else.
func (e *Entity) applyTransform(raw any) any {
	if e.desc.Transform != nil {
		return e.desc.Transform(raw)
	}
	switch e.desc.Kind {
	case KindBinarySensor, KindSwitch:
		if b, ok := BitToBool(raw); ok {
			return b
		}
		return nil
	case KindNumber:
		if f, ok := ToFloat(raw); ok {
			return f
		}
		return nil
	default:
		return raw
	}
}

// TurnOn publishes the switch's on payload.
func (e *Entity) TurnOn() error {
	if e.desc.Kind != KindSwitch {
		return fmt.Errorf("%w: turn_on on %s %q", ErrUnsupportedAction, e.desc.Kind, e.desc.Key)
	}
	payload := e.desc.PayloadOn
	if payload == "" {
		payload = "1"
	}
	return e.publishCommand(payload)
}

// TurnOff publishes the switch's off payload.
func (e *Entity) TurnOff() error {
	if e.desc.Kind != KindSwitch {
		return fmt.Errorf("%w: turn_off on %s %q", ErrUnsupportedAction, e.desc.Kind, e.desc.Key)
	}
	payload := e.desc.PayloadOff
	if payload == "" {
		payload = "0"
	}
	return e.publishCommand(payload)
}

// Press publishes the button's fixed payload (empty by default, which
// Tasmota treats as "execute").
func (e *Entity) Press() error {
	if e.desc.Kind != KindButton {
		return fmt.Errorf("%w: press on %s %q", ErrUnsupportedAction, e.desc.Kind, e.desc.Key)
	}
	return e.publishCommand(e.desc.Payload)
}

// SetValue clamps v to the descriptor's bounds, renders it per the
// step/template policy, and publishes it.
func (e *Entity) SetValue(v float64) error {
	if e.desc.Kind != KindNumber {
		return fmt.Errorf("%w: set_value on %s %q", ErrUnsupportedAction, e.desc.Kind, e.desc.Key)
	}
	v = Clamp(v, e.desc.Min, e.desc.Max)
	return e.publishCommand(FormatCommand(v, e.desc.Step, e.desc.CommandTemplate))
}

// SelectOption reverse-maps the chosen label to its raw code and
// publishes it.
func (e *Entity) SelectOption(label string) error {
	if e.desc.Kind != KindSelect {
		return fmt.Errorf("%w: select_option on %s %q", ErrUnsupportedAction, e.desc.Kind, e.desc.Key)
	}
	code, ok := LookupByValue(e.desc.Options, label)
	if !ok {
		return fmt.Errorf("%w: %q for %q", ErrUnknownOption, label, e.desc.Key)
	}
	return e.publishCommand(strconv.Itoa(code))
}

// Options returns the selectable labels in raw-code order. Empty for
// non-select kinds.
func (e *Entity) Options() []string {
	if len(e.desc.Options) == 0 {
		return nil
	}
	codes := make([]int, 0, len(e.desc.Options))
	for code := range e.desc.Options {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	labels := make([]string, len(codes))
	for i, code := range codes {
		labels[i] = e.desc.Options[code]
	}
	return labels
}

// publishCommand sends one plain-string command. Commands are never
// retained; a retained command would re-execute on every controller
// reconnect. Publish failures propagate to the caller unretried.
func (e *Entity) publishCommand(payload string) error {
	if !e.desc.Writable() {
		return fmt.Errorf("%w: %q has no command", ErrUnsupportedAction, e.desc.Key)
	}
	topic := e.dev.CommandTopic(e.desc.Command)
	return e.tr.Publish(topic, []byte(payload), commandQoS, false)
}
