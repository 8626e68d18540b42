package buffer

import "errors"

var (
	// ErrCapacity indicates a request beyond the pool's maximum
	// single-allocation size.
	ErrCapacity = errors.New("buffer: requested capacity exceeds maximum")

	// ErrOutOfRange indicates a position or count outside the buffer's
	// current bounds.
	ErrOutOfRange = errors.New("buffer: index out of range")
)
