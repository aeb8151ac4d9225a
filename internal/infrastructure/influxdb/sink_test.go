package influxdb

import (
	"testing"

	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/neopool"
)

// fakeWriter records metric writes in memory.
type fakeWriter struct {
	metrics      []metricWrite
	availability []availabilityWrite
}

type metricWrite struct {
	entityID string
	metric   string
	value    float64
}

type availabilityWrite struct {
	entityID  string
	available bool
}

func (f *fakeWriter) WriteEntityMetric(entityID string, metric string, value float64) {
	f.metrics = append(f.metrics, metricWrite{entityID: entityID, metric: metric, value: value})
}

func (f *fakeWriter) WriteAvailability(entityID string, available bool) {
	f.availability = append(f.availability, availabilityWrite{entityID: entityID, available: available})
}

func TestSink_StateChanged(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		want      float64
		wantWrite bool
	}{
		{name: "float written directly", value: 28.5, want: 28.5, wantWrite: true},
		{name: "bool true as one", value: true, want: 1.0, wantWrite: true},
		{name: "bool false as zero", value: false, want: 0.0, wantWrite: true},
		{name: "int as float", value: 3, want: 3.0, wantWrite: true},
		{name: "string label skipped", value: "Auto", wantWrite: false},
		{name: "nil skipped", value: nil, wantWrite: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeWriter{}
			sink := NewSink(writer)

			sink.StateChanged(neopool.Snapshot{
				UniqueID: "neopool_mqtt_ABC123_test",
				Key:      "test",
				Value:    tt.value,
			})

			if !tt.wantWrite {
				if len(writer.metrics) != 0 {
					t.Fatalf("metric writes = %d, want 0", len(writer.metrics))
				}
				return
			}
			if len(writer.metrics) != 1 {
				t.Fatalf("metric writes = %d, want 1", len(writer.metrics))
			}
			got := writer.metrics[0]
			if got.entityID != "neopool_mqtt_ABC123_test" || got.metric != "test" || got.value != tt.want {
				t.Errorf("wrote %+v, want value %v", got, tt.want)
			}
		})
	}
}

func TestSink_AvailabilityChanged(t *testing.T) {
	writer := &fakeWriter{}
	sink := NewSink(writer)

	sink.AvailabilityChanged(neopool.Snapshot{UniqueID: "ent-1", Available: true})
	sink.AvailabilityChanged(neopool.Snapshot{UniqueID: "ent-1", Available: false})

	if len(writer.availability) != 2 {
		t.Fatalf("availability writes = %d, want 2", len(writer.availability))
	}
	if !writer.availability[0].available || writer.availability[1].available {
		t.Errorf("availability sequence = %+v, want true then false", writer.availability)
	}
}
