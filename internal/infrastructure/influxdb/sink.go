package influxdb

import (
	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/neopool"
)

// MetricWriter is the subset of Client the sink needs. Narrowed for
// testability.
type MetricWriter interface {
	WriteEntityMetric(entityID string, metric string, value float64)
	WriteAvailability(entityID string, available bool)
}

// Sink forwards entity notifications to InfluxDB.
//
// Only values with a numeric representation are written: floats
// directly, booleans as 0/1. String states (mode labels, alarm text)
// have no meaningful time-series encoding and are skipped; the SQLite
// history keeps those.
type Sink struct {
	writer MetricWriter
}

// NewSink creates a Sink writing through w.
func NewSink(w MetricWriter) *Sink {
	return &Sink{writer: w}
}

// StateChanged writes numeric state values as entity metrics.
func (s *Sink) StateChanged(snap neopool.Snapshot) {
	switch v := snap.Value.(type) {
	case float64:
		s.writer.WriteEntityMetric(snap.UniqueID, snap.Key, v)
	case bool:
		value := 0.0
		if v {
			value = 1.0
		}
		s.writer.WriteEntityMetric(snap.UniqueID, snap.Key, value)
	case int:
		s.writer.WriteEntityMetric(snap.UniqueID, snap.Key, float64(v))
	}
}

// AvailabilityChanged writes the availability flag as a 0/1 series.
func (s *Sink) AvailabilityChanged(snap neopool.Snapshot) {
	s.writer.WriteAvailability(snap.UniqueID, snap.Available)
}
