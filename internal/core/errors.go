package core

import "errors"

// Exported variables.
var (
	// ErrNotProxable is returned when an administrative operation targets
	// something New never wrapped: a nil or zero handle, or one created while
	// wrapping was disabled.
	ErrNotProxable = errors.New("not proxable")
	// ErrInvalidArgument is returned for a missing mapping function, a mapping
	// function that yields nil, or a stub value that fits none of the results.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotAFunction is returned by New when F is not a func type or the
	// original is nil.
	ErrNotAFunction = errors.New("not a function")
)
