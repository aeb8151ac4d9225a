package history

import (
	"context"
	"time"
)

// Entry represents a single recorded entity state transition.
type Entry struct {
	// ID is the auto-incremented primary key for the history row.
	ID int64 `json:"id"`

	// EntityID is the entity's persistent unique ID.
	EntityID string `json:"entity_id"`

	// State is the display-string form of the value at the time of the
	// change ("on", "28.5", "Auto").
	State string `json:"state"`

	// Available records whether the entity was available when the
	// state was observed.
	Available bool `json:"available"`

	// RecordedAt is the timestamp of the transition (UTC).
	RecordedAt time.Time `json:"recorded_at"`
}

// Repository stores and retrieves entity state history.
//
// Implementations must be thread-safe and use UTC timestamps.
type Repository interface {
	// RecordStateChange records one entity state transition.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - entityID: Persistent unique entity ID
	//   - state: Display-string form of the new value
	//   - available: Entity availability at observation time
	//
	// Returns:
	//   - error: nil on success, otherwise the underlying persistence error
	RecordStateChange(ctx context.Context, entityID, state string, available bool) error

	// GetHistory returns recent transitions for the entity.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - entityID: Persistent unique entity ID
	//   - limit: Maximum entries to return (implementation may clamp bounds)
	//
	// Returns:
	//   - []Entry: Ordered newest-first history entries (may be empty)
	//   - error: nil on success, otherwise the underlying query error
	GetHistory(ctx context.Context, entityID string, limit int) ([]Entry, error)
}
