package grid

import "errors"

// Domain errors for viewer operations. All of them are recovered at
// the render coordinator boundary; none should escape a session.
var (
	// ErrInvalidMapping indicates an axis-role mapping that violates the
	// X/Y/NAV invariants.
	ErrInvalidMapping = errors.New("grid: invalid axis-role mapping")

	// ErrIndexOutOfRange indicates a navigation or fixed index outside a
	// dimension's bounds.
	ErrIndexOutOfRange = errors.New("grid: index out of range")

	// ErrNotNavigable indicates a step request with no navigation
	// dimension set.
	ErrNotNavigable = errors.New("grid: no navigation dimension set")

	// ErrDataFetch indicates the data source could not deliver a slice.
	ErrDataFetch = errors.New("grid: slice fetch failed")

	// ErrEmptySlice indicates a slice whose values are all missing or
	// non-finite.
	ErrEmptySlice = errors.New("grid: slice contains no finite values")

	// ErrCancelled indicates the user abandoned a pending operation.
	ErrCancelled = errors.New("grid: cancelled")
)
