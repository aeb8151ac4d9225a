package history

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/neopool"
)

// recordTimeout bounds each history write. Sink callbacks run on MQTT
// delivery goroutines and must never block telemetry processing.
const recordTimeout = 5 * time.Second

// Recorder adapts a Repository to the bridge sink interface.
//
// State changes are recorded as they arrive. Availability notifications
// are de-duplicated per entity before writing: the device emits its
// liveness signal periodically and identical consecutive rows carry no
// information.
type Recorder struct {
	repo Repository
	log  neopool.Logger

	mu        sync.Mutex
	lastAvail map[string]bool
}

// NewRecorder creates a Recorder writing to repo. The logger is
// optional; write failures are logged and swallowed so persistence
// problems never stall the telemetry pipeline.
func NewRecorder(repo Repository, log neopool.Logger) *Recorder {
	return &Recorder{
		repo:      repo,
		log:       log,
		lastAvail: make(map[string]bool),
	}
}

// StateChanged records the new state.
func (r *Recorder) StateChanged(snap neopool.Snapshot) {
	r.record(snap)
}

// AvailabilityChanged records availability transitions, skipping
// repeats of the current flag.
func (r *Recorder) AvailabilityChanged(snap neopool.Snapshot) {
	r.mu.Lock()
	last, seen := r.lastAvail[snap.UniqueID]
	if seen && last == snap.Available {
		r.mu.Unlock()
		return
	}
	r.lastAvail[snap.UniqueID] = snap.Available
	r.mu.Unlock()

	r.record(snap)
}

func (r *Recorder) record(snap neopool.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.repo.RecordStateChange(ctx, snap.UniqueID, FormatState(snap.Value), snap.Available); err != nil {
		if r.log != nil {
			r.log.Error("recording entity history failed",
				"entity", snap.UniqueID,
				"error", err,
			)
		}
	}
}

// FormatState renders a snapshot value as its display string: booleans
// as on/off, floats in their natural form, nil as the empty string.
func FormatState(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "on"
		}
		return "off"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	default:
		return ""
	}
}
