package alloc

import (
	"fmt"
	"unsafe"
)

// Adapter is a per-element-type view of a Pool. It scales counts by the
// element size and forwards to the pool; copies of an Adapter share the
// same pool. Segments are 64-byte aligned, which satisfies any Go type.
//
// The zero value is not bound to a pool and fails every operation with
// ErrNoPool; there is no implicit process-wide pool to fall back to.
type Adapter[T any] struct {
	pool *Pool
}

// NewAdapter creates an Adapter serving element type T from p.
func NewAdapter[T any](p *Pool) Adapter[T] {
	return Adapter[T]{pool: p}
}

// Pool returns the underlying pool, or nil for the zero Adapter.
func (a Adapter[T]) Pool() *Pool {
	return a.pool
}

// Allocate returns a slice of n elements of locked memory.
func (a Adapter[T]) Allocate(n int) ([]T, error) {
	if a.pool == nil {
		return nil, ErrNoPool
	}
	// Guard the count before scaling: n*elemSize can wrap around the int
	// range and sneak an absurd request past the pool's byte-size check.
	if n < 0 || n > a.MaxSize() {
		return nil, fmt.Errorf("%w: %d elements", ErrSizeTooLarge, n)
	}
	b, err := a.pool.Allocate(n * elemSize[T]())
	if err != nil || b == nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), nil
}

// Deallocate returns a slice obtained from Allocate to the pool.
func (a Adapter[T]) Deallocate(s []T) error {
	if a.pool == nil {
		return ErrNoPool
	}
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*elemSize[T]())
	return a.pool.Deallocate(b)
}

// MaxSize returns the maximum element count of a single allocation.
func (a Adapter[T]) MaxSize() int {
	if a.pool == nil {
		return 0
	}
	return a.pool.MaxSize() / elemSize[T]()
}

func elemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
