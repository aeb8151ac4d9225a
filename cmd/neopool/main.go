// NeoPool Bridge - Sugar Valley pool controller gateway
//
// This is the main entry point for the NeoPool bridge. It connects a
// Tasmota-flashed Sugar Valley NeoPool controller (MQTT telemetry) to a
// local entity model exposed over a REST API and WebSocket event
// stream, with state history in SQLite and optional metrics in
// InfluxDB.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/alexdelprete/ha-sugar-valley-neopool/migrations"

	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/api"
	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/history"
	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/infrastructure/config"
	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/infrastructure/database"
	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/infrastructure/influxdb"
	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/infrastructure/logging"
	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/infrastructure/mqtt"
	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/neopool"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting NeoPool bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// State history repository and recorder
	historyRepo := history.NewSQLiteRepository(db.DB)
	recorder := history.NewRecorder(historyRepo, log)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// WebSocket hub is created here (rather than inside the API server)
	// because it doubles as a bridge sink for live event broadcasting.
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	// Assemble the bridge sinks: history always, WebSocket always,
	// InfluxDB only when enabled.
	sinks := []neopool.Sink{recorder, hub}
	if influxClient != nil {
		sinks = append(sinks, influxdb.NewSink(influxClient))
	}

	// Build and start the NeoPool bridge. The dispatcher multiplexes the
	// shared telemetry topics across all entities over one upstream
	// subscription per topic.
	dispatcher := neopool.NewDispatcher(&brokerAdapter{client: mqttClient})
	bridge, err := neopool.NewBridge(neopool.BridgeOptions{
		Device: neopool.Device{
			Name:     cfg.Device.Name,
			Topic:    cfg.Device.Topic,
			NodeID:   cfg.Device.NodeID,
			IDPrefix: cfg.Device.UniqueIDPrefix + "_",
		},
		Transport: dispatcher,
		Sinks:     sinks,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("creating NeoPool bridge: %w", err)
	}
	if err := bridge.Start(); err != nil {
		return fmt.Errorf("starting NeoPool bridge: %w", err)
	}
	defer func() {
		log.Info("stopping NeoPool bridge")
		bridge.Stop()
	}()

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Bridge:  bridge,
		History: historyRepo,
		Hub:     hub,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. NeoPool bridge
	// 3. InfluxDB (if enabled)
	// 4. MQTT
	// 5. Database

	log.Info("NeoPool bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses NEOPOOL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("NEOPOOL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// brokerAdapter adapts the infrastructure MQTT client to the neopool
// Broker interface. The client's Subscribe takes a named handler type;
// the Broker contract uses a plain function signature so the entity
// layer stays free of MQTT imports.
type brokerAdapter struct {
	client *mqtt.Client
}

// Subscribe implements neopool.Broker.
func (a *brokerAdapter) Subscribe(topic string, qos byte, handler func(topic string, payload []byte) error) error {
	return a.client.Subscribe(topic, qos, handler)
}

// Unsubscribe implements neopool.Broker.
func (a *brokerAdapter) Unsubscribe(topic string) error {
	return a.client.Unsubscribe(topic)
}

// Publish implements neopool.Broker.
func (a *brokerAdapter) Publish(topic string, payload []byte, qos byte, retained bool) error {
	return a.client.Publish(topic, payload, qos, retained)
}
