// Package history persists entity state transitions to SQLite.
//
// Every state change the bridge observes is recorded as one row,
// giving a local audit trail that survives restarts and works when the
// time-series database is down. Values are stored as display strings
// regardless of entity kind so one table serves every platform.
//
// The Recorder type adapts the repository to the bridge's sink
// interface; wire it into the bridge's sink list to capture history
// passively.
package history
