package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteEntityMetric writes a single entity measurement to InfluxDB.
//
// This is the primary method for recording pool telemetry. The write is
// non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - entityID: Persistent unique entity ID
//   - metric: The metric name (catalog key, e.g. "water_temperature")
//   - value: The numeric value to record
//
// Example:
//
//	client.WriteEntityMetric("neopool_mqtt_ABC123_ph_data", "ph_data", 7.2)
func (c *Client) WriteEntityMetric(entityID string, metric string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"entity_metrics",
		map[string]string{
			"entity_id": entityID,
			"metric":    metric,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteAvailability records an entity availability transition as a 0/1
// series, useful for uptime dashboards and alerting on device dropouts.
//
// Parameters:
//   - entityID: Persistent unique entity ID
//   - available: The new availability flag
func (c *Client) WriteAvailability(entityID string, available bool) {
	if !c.IsConnected() {
		return
	}

	value := 0
	if available {
		value = 1
	}

	point := write.NewPoint(
		"entity_availability",
		map[string]string{
			"entity_id": entityID,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
