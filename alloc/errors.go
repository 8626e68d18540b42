package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the page source could not provide the pages
	// backing an allocation.
	ErrOutOfMemory = errors.New("alloc: page source out of memory")

	// ErrSizeTooLarge indicates the requested size exceeds Pool.MaxSize.
	ErrSizeTooLarge = errors.New("alloc: requested size exceeds maximum")

	// ErrBadAddress indicates a slice passed to Deallocate that was not
	// returned by Allocate on this pool (or was already freed).
	ErrBadAddress = errors.New("alloc: address not allocated by this pool")

	// ErrBadPageSize indicates a page source whose page size is not a
	// positive multiple of the chunk size.
	ErrBadPageSize = errors.New("alloc: page size must be a multiple of 4096")

	// ErrClosed indicates an operation on a pool after Close.
	ErrClosed = errors.New("alloc: pool is closed")

	// ErrNoPool indicates an Adapter that is not bound to a Pool. There is
	// no process-wide fallback pool; adapters must be created with
	// NewAdapter.
	ErrNoPool = errors.New("alloc: adapter is not bound to a pool")
)
