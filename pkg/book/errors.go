package book

import "errors"

// Sentinel errors classifying why a command was rejected. They are carried
// inside Rejected results and matched with errors.Is; none of them is fatal.
var (
	// ErrValidation covers malformed input: price outside [1,99], quantity
	// not positive, missing required price.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateOrder marks a NewOrder whose identifier is already resting.
	ErrDuplicateOrder = errors.New("duplicate order")

	// ErrOrderNotFound marks a Cancel or Modify for an unknown identifier,
	// including the internal anomaly of an indexed order missing from its
	// recorded price level.
	ErrOrderNotFound = errors.New("order not found")
)
