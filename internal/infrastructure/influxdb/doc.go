// Package influxdb provides InfluxDB connectivity for the NeoPool bridge.
//
// It wraps the official influxdb-client-go v2 library with bridge-specific
// patterns for connection management, metric writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series storage for:
//   - Entity measurements (water temperature, pH, redox, hydrolysis)
//   - Entity availability transitions
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "neopool",
//	    Bucket:  "pool_metrics",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Write entity metrics
//	client.WriteEntityMetric("neopool_mqtt_ABC123_water_temperature", "water_temperature", 28.5)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead for high-frequency telemetry data.
package influxdb
