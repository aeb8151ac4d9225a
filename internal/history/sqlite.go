package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// SQLiteRepository implements Repository using SQLite.
//
// Rows live in the entity_history table created by the embedded
// migrations.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite history repository.
//
// Parameters:
//   - db: Open SQLite connection used for queries
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// RecordStateChange inserts a new history row for an entity.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - entityID: Persistent unique entity ID
//   - state: Display-string form of the new value
//   - available: Entity availability at observation time
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteRepository) RecordStateChange(ctx context.Context, entityID, state string, available bool) error {
	if entityID == "" {
		return fmt.Errorf("entity id is required")
	}

	availableFlag := 0
	if available {
		availableFlag = 1
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO entity_history (entity_id, state, available, recorded_at) VALUES (?, ?, ?, ?)",
		entityID,
		state,
		availableFlag,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting entity history: %w", err)
	}

	return nil
}

// GetHistory returns recent history rows for an entity, ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - entityID: Persistent unique entity ID
//   - limit: Maximum entries to return (default 50, max 200)
//
// Returns:
//   - []Entry: History entries ordered by recorded_at DESC
//   - error: nil on success, otherwise the underlying query error
func (r *SQLiteRepository) GetHistory(ctx context.Context, entityID string, limit int) ([]Entry, error) {
	if entityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_id, state, available, recorded_at
		 FROM entity_history
		 WHERE entity_id = ?
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT ?`,
		entityID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying entity history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var availableFlag int
		var recordedAt string

		if err := rows.Scan(&entry.ID, &entry.EntityID, &entry.State, &availableFlag, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning entity history: %w", err)
		}
		entry.Available = availableFlag != 0

		timestamp, err := parseHistoryTimestamp(recordedAt)
		if err != nil {
			return nil, err
		}
		entry.RecordedAt = timestamp

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity history: %w", err)
	}

	return entries, nil
}

// PruneHistory deletes history rows older than the given duration.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - olderThan: Duration to retain (rows older than now-olderThan are deleted)
//
// Returns:
//   - int64: Number of rows deleted
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteRepository) PruneHistory(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM entity_history WHERE recorded_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting entity history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// parseHistoryTimestamp parses a timestamp stored in SQLite.
func parseHistoryTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("recorded_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return timestamp, nil
	}

	fallback, fallbackErr := time.Parse("2006-01-02T15:04:05Z", value)
	if fallbackErr == nil {
		return fallback, nil
	}

	return time.Time{}, fmt.Errorf("parsing recorded_at: %w", err)
}
