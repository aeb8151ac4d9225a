package neopool

import "errors"

// Domain-specific errors for entity operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidDevice is returned when a device has no usable identity
	// (empty topic root or a hidden/empty NodeID).
	ErrInvalidDevice = errors.New("neopool: invalid device identity")

	// ErrUnsupportedAction is returned when an action is invoked on an
	// entity kind that does not support it (e.g. TurnOn on a sensor).
	ErrUnsupportedAction = errors.New("neopool: action not supported for entity kind")

	// ErrUnknownOption is returned by SelectOption when the requested
	// option is not present in the entity's option map.
	ErrUnknownOption = errors.New("neopool: unknown select option")

	// ErrEntityNotFound is returned when looking up an entity by an
	// unknown unique ID.
	ErrEntityNotFound = errors.New("neopool: entity not found")

	// ErrAlreadyStarted is returned when starting a bridge twice.
	ErrAlreadyStarted = errors.New("neopool: bridge already started")
)
