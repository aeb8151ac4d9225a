package neopool

import (
	"fmt"
	"sync"
)

// Logger is the logging contract the bridge accepts. Compatible with
// the infrastructure logging package and slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// BridgeOptions configures a Bridge.
type BridgeOptions struct {
	// Device identifies the controller; Topic and NodeID are required.
	Device Device

	// Transport carries subscriptions and command publishes. Usually a
	// Dispatcher over the MQTT client.
	Transport Transport

	// Descriptors defaults to the full Catalog when empty.
	Descriptors []Descriptor

	// Sinks receive every state and availability notification.
	Sinks []Sink

	// Logger is optional.
	Logger Logger
}

// Bridge owns the full entity set for one device: it builds entities
// from the catalog, attaches them on Start, detaches them on Stop, and
// multiplexes their notifications to the configured sinks.
type Bridge struct {
	dev   Device
	tr    Transport
	sinks []Sink
	log   Logger

	mu       sync.Mutex
	started  bool
	entities map[string]*Entity
	order    []string
}

// NewBridge validates the options and builds the (not yet attached)
// entity set.
func NewBridge(opts BridgeOptions) (*Bridge, error) {
	if err := opts.Device.Validate(); err != nil {
		return nil, err
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("neopool: bridge requires a transport")
	}

	descriptors := opts.Descriptors
	if len(descriptors) == 0 {
		descriptors = Catalog()
	}

	b := &Bridge{
		dev:      opts.Device,
		tr:       opts.Transport,
		sinks:    opts.Sinks,
		log:      opts.Logger,
		entities: make(map[string]*Entity, len(descriptors)),
	}

	for _, desc := range descriptors {
		if desc.Key == "" {
			return nil, fmt.Errorf("neopool: descriptor with empty key (kind %s)", desc.Kind)
		}
		if !desc.Readable() && !desc.Writable() {
			return nil, fmt.Errorf("neopool: descriptor %q is neither readable nor writable", desc.Key)
		}
		entity := NewEntity(desc, opts.Device, opts.Transport, b)
		id := entity.UniqueID()
		if _, dup := b.entities[id]; dup {
			return nil, fmt.Errorf("neopool: duplicate unique ID %q", id)
		}
		b.entities[id] = entity
		b.order = append(b.order, id)
	}

	return b, nil
}

// Start attaches every entity. On any failure the already attached
// entities are detached and the error is returned.
func (b *Bridge) Start() error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return ErrAlreadyStarted
	}
	b.started = true
	b.mu.Unlock()

	for i, id := range b.order {
		if err := b.entities[id].Attach(); err != nil {
			for _, prev := range b.order[:i] {
				b.entities[prev].Detach()
			}
			b.mu.Lock()
			b.started = false
			b.mu.Unlock()
			return err
		}
	}

	if b.log != nil {
		b.log.Info("neopool bridge started",
			"device", b.dev.Topic,
			"nodeid", b.dev.NodeID,
			"entities", len(b.order),
		)
	}
	return nil
}

// Stop detaches every entity. Safe to call repeatedly.
func (b *Bridge) Stop() {
	b.mu.Lock()
	wasStarted := b.started
	b.started = false
	b.mu.Unlock()

	for _, id := range b.order {
		b.entities[id].Detach()
	}

	if wasStarted && b.log != nil {
		b.log.Info("neopool bridge stopped", "device", b.dev.Topic)
	}
}

// Device returns the bridged device.
func (b *Bridge) Device() Device {
	return b.dev
}

// Entity looks up one entity by its persistent unique ID.
func (b *Bridge) Entity(uniqueID string) (*Entity, error) {
	entity, ok := b.entities[uniqueID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEntityNotFound, uniqueID)
	}
	return entity, nil
}

// Snapshots returns the current state of every entity in catalog order.
func (b *Bridge) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.entities[id].Snapshot())
	}
	return out
}

// StateChanged fans a state notification out to every sink. The bridge
// itself is the entities' sink.
func (b *Bridge) StateChanged(snap Snapshot) {
	if b.log != nil {
		b.log.Debug("entity state changed",
			"entity", snap.UniqueID,
			"value", snap.Value,
		)
	}
	for _, sink := range b.sinks {
		sink.StateChanged(snap)
	}
}

// AvailabilityChanged fans an availability notification out to every
// sink. Called for every liveness message, changed or not.
func (b *Bridge) AvailabilityChanged(snap Snapshot) {
	if b.log != nil {
		b.log.Debug("entity availability changed",
			"entity", snap.UniqueID,
			"available", snap.Available,
		)
	}
	for _, sink := range b.sinks {
		sink.AvailabilityChanged(snap)
	}
}
