package buffer

import (
	"github.com/memvault/memvault/alloc"
	"github.com/memvault/memvault/internal/memops"
)

// DefaultBlockSize is the capacity granularity used when Options does
// not specify one.
const DefaultBlockSize = 128

// Options configures a Buffer.
type Options struct {
	// BlockSize is the granularity, in bytes, to which capacity is
	// rounded up on growth. Zero or negative selects DefaultBlockSize.
	BlockSize int
}

// Buffer is a growable byte buffer for secret material. Create one with
// New; the zero value is not bound to a pool and cannot grow.
//
// Invariants: Len() <= Cap(); Cap() is zero or a multiple of the block
// size; when storage is held, the byte at index Len() is a zero
// terminator. Empty buffers hold no storage at all.
type Buffer struct {
	adapter alloc.Adapter[byte]
	block   int
	mem     []byte // nil when empty; len(mem) == Cap()
	n       int    // logical length; mem[n] == 0 when mem != nil
}

// New creates an empty Buffer drawing storage from pool. opts may be
// nil.
func New(pool *alloc.Pool, opts *Options) *Buffer {
	block := DefaultBlockSize
	if opts != nil && opts.BlockSize > 0 {
		block = opts.BlockSize
	}
	return &Buffer{adapter: alloc.NewAdapter[byte](pool), block: block}
}

// Len returns the logical length in bytes.
func (b *Buffer) Len() int { return b.n }

// Cap returns the current capacity in bytes.
func (b *Buffer) Cap() int { return len(b.mem) }

// BlockSize returns the capacity granularity.
func (b *Buffer) BlockSize() int { return b.block }

// Pool returns the pool the buffer draws storage from.
func (b *Buffer) Pool() *alloc.Pool { return b.adapter.Pool() }

// Bytes returns a view of the buffer's content. The view aliases the
// locked storage: it is invalidated by any mutation and must not
// outlive the buffer.
func (b *Buffer) Bytes() []byte {
	if b.mem == nil {
		return nil
	}
	return b.mem[:b.n:b.n]
}

// String copies the content into an ordinary Go string. The copy lives
// on the regular heap with none of the buffer's protections; use it
// only where the secret is allowed to escape.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Reserve guarantees capacity for a length of n bytes plus the
// terminator. Growth never happens in place: a fresh block-rounded
// allocation is made, the current content migrates, and the old storage
// is wiped before going back to the pool. Reserve never shrinks.
func (b *Buffer) Reserve(n int) error {
	// Gate on the rounded size: the terminator and block rounding can
	// push an otherwise-acceptable n past the pool maximum. The n+1
	// check also keeps roundUp's arithmetic away from int overflow.
	limit := b.adapter.MaxSize()
	if n < 0 || n+1 < 0 || n+1 > limit || roundUp(n+1, b.block) > limit {
		return ErrCapacity
	}
	if n < len(b.mem) {
		return nil
	}
	fresh, err := b.adapter.Allocate(roundUp(n+1, b.block))
	if err != nil {
		return err
	}
	// Segment reuse can hand back storage still holding bytes freed by
	// someone who didn't wipe; start from a clean slate.
	memops.Wipe(fresh)
	if b.mem == nil {
		b.mem = fresh
		return nil
	}
	copy(fresh, b.mem[:b.n+1])
	old := b.mem
	b.mem = fresh
	memops.Wipe(old)
	return b.adapter.Deallocate(old)
}

// ShrinkToFit rebuilds the buffer with minimal storage when the spare
// capacity exceeds one block beyond Len()+1, and releases storage
// entirely when the buffer is empty. Len() never changes, and capacity
// never drops below Len()+1.
func (b *Buffer) ShrinkToFit() error {
	if b.mem == nil {
		return nil
	}
	if b.n == 0 {
		old := b.mem
		b.mem = nil
		memops.Wipe(old)
		return b.adapter.Deallocate(old)
	}
	if len(b.mem)-(b.n+1) <= b.block {
		return nil
	}
	fresh, err := b.adapter.Allocate(roundUp(b.n+1, b.block))
	if err != nil {
		return err
	}
	memops.Wipe(fresh)
	copy(fresh, b.mem[:b.n+1])
	old := b.mem
	b.mem = fresh
	memops.Wipe(old)
	return b.adapter.Deallocate(old)
}

// Swap exchanges the content, capacity, block size and pool binding of
// b and o.
func (b *Buffer) Swap(o *Buffer) {
	*b, *o = *o, *b
}

// Clone returns a new Buffer with a copy of the content. A non-nil pool
// places the copy on that pool; nil reuses b's pool.
func (b *Buffer) Clone(pool *alloc.Pool) (*Buffer, error) {
	target := pool
	if target == nil {
		target = b.adapter.Pool()
	}
	nb := New(target, &Options{BlockSize: b.block})
	if b.n > 0 {
		if err := nb.Assign(b.mem[:b.n]); err != nil {
			return nil, err
		}
	}
	return nb, nil
}

// Destroy wipes the entire capacity and releases the storage. The
// buffer returns to the empty state and remains usable; calling Destroy
// again is a no-op.
func (b *Buffer) Destroy() error {
	b.n = 0
	if b.mem == nil {
		return nil
	}
	old := b.mem
	b.mem = nil
	memops.Wipe(old)
	return b.adapter.Deallocate(old)
}

// ensure makes room for a length of k bytes plus the terminator.
func (b *Buffer) ensure(k int) error {
	if b.mem != nil && k+1 <= len(b.mem) {
		return nil
	}
	return b.Reserve(k)
}

func roundUp(n, unit int) int {
	return (n + unit - 1) / unit * unit
}
