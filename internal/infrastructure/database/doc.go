// Package database provides SQLite storage for the NeoPool bridge.
//
// The bridge keeps all live entity state in memory; SQLite holds only
// durable data that must survive restarts:
//   - Entity state history (timestamped state transitions)
//   - Schema migration records
//
// # Design Decisions
//
// SQLite over a server database because the bridge is a single-process
// appliance: one writer, local file, zero administration. WAL mode is
// enabled by default so API reads never block history writes.
//
// Migrations are embedded into the binary via embed.FS (see the
// migrations package) and applied automatically at startup.
package database
