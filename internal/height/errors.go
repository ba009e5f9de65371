package height

import "errors"

var (
	// ErrBeforeGenesis is returned when the wall clock is earlier than the
	// configured genesis instant.
	ErrBeforeGenesis = errors.New("current time is before genesis")

	// ErrHeightRegression is returned when a caller attempts to move a manual
	// source backwards.
	ErrHeightRegression = errors.New("height moved backwards")

	// ErrInvalidSlotPeriod is returned when constructing a wall source with a
	// non-positive slot period.
	ErrInvalidSlotPeriod = errors.New("slot period must be positive")
)
