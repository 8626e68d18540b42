package buffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memvault/memvault/alloc"
)

// Capacity after assigning n bytes is the smallest block multiple that
// fits n plus the terminator.
func TestAssignRepeat_CapacityRule(t *testing.T) {
	pool := newTestPool(t, &stubSource{pageSize: 4096})
	for _, n := range []int{1, 63, 64, 127, 128, 200, 255, 256, 1000} {
		b := New(pool, nil)
		require.NoError(t, b.AssignRepeat(n, 'x'))
		assert.Equal(t, n, b.Len(), "n=%d", n)
		want := (n + 1 + DefaultBlockSize - 1) / DefaultBlockSize * DefaultBlockSize
		assert.Equal(t, want, b.Cap(), "n=%d", n)
		require.NoError(t, b.Destroy())
	}
}

// Default-state buffers never touch the allocator.
func TestEmptyBufferNeverAllocates(t *testing.T) {
	src := &stubSource{pageSize: 4096}
	pool := newTestPool(t, src)

	b := New(pool, nil)
	require.NoError(t, b.Assign(nil))
	require.NoError(t, b.AssignRepeat(0, 'x'))
	require.NoError(t, b.Append(nil))
	b.Clear()
	require.NoError(t, b.ShrinkToFit())
	require.NoError(t, b.Destroy())

	assert.Zero(t, b.Len())
	assert.Zero(t, b.Cap())
	assert.Zero(t, src.allocs)
}

func TestReserve_GrowsByMigration(t *testing.T) {
	pool := newTestPool(t, &stubSource{pageSize: 4096})
	b := New(pool, nil)
	defer b.Destroy()

	require.NoError(t, b.AssignString("secret payload"))
	old := b.mem
	require.NoError(t, b.Reserve(500))

	assert.GreaterOrEqual(t, b.Cap(), 501)
	assert.Equal(t, "secret payload", b.String())
	assert.True(t, allZero(old), "old storage must be wiped after migration")
}

func TestReserve_NoopBelowCapacity(t *testing.T) {
	src := &stubSource{pageSize: 4096}
	pool := newTestPool(t, src)
	b := New(pool, nil)
	defer b.Destroy()

	require.NoError(t, b.AssignString("abc"))
	allocs := src.allocs
	require.NoError(t, b.Reserve(b.Cap()-1))
	assert.Equal(t, allocs, src.allocs)

	// Reserving exactly the capacity must grow: the terminator needs
	// one byte beyond it. The new storage may come from segments of an
	// already-mapped page, so observe the buffer, not the source.
	capBefore := b.Cap()
	old := &b.mem[0]
	require.NoError(t, b.Reserve(b.Cap()))
	assert.Greater(t, b.Cap(), capBefore)
	assert.NotSame(t, old, &b.mem[0], "growth must migrate, never extend in place")
}

func TestReserve_CapacityExceeded(t *testing.T) {
	pool := newTestPool(t, &stubSource{pageSize: 4096})
	b := New(pool, nil)
	defer b.Destroy()

	require.NoError(t, b.AssignString("keep"))
	err := b.Reserve(pool.MaxSize() + 1)
	assert.ErrorIs(t, err, ErrCapacity)

	// n within the pool maximum but whose terminator-and-block rounding
	// exceeds it fails the same way, not with an allocator error.
	err = b.Reserve(pool.MaxSize())
	assert.ErrorIs(t, err, ErrCapacity)
	err = b.Reserve(pool.MaxSize() - 1)
	assert.ErrorIs(t, err, ErrCapacity)

	assert.Equal(t, "keep", b.String(), "failed reserve must leave the buffer unchanged")
}

func TestReserve_OutOfMemoryLeavesStateIntact(t *testing.T) {
	src := &stubSource{pageSize: 4096}
	pool := newTestPool(t, src)
	b := New(pool, nil)
	defer b.Destroy()

	require.NoError(t, b.AssignString("intact"))
	src.failAlloc = true
	err := b.Append(bytes.Repeat([]byte{'x'}, 4096))
	assert.ErrorIs(t, err, alloc.ErrOutOfMemory)
	assert.Equal(t, "intact", b.String())
	src.failAlloc = false
}

func TestShrinkToFit_Properties(t *testing.T) {
	pool := newTestPool(t, &stubSource{pageSize: 4096})
	b := New(pool, nil)
	defer b.Destroy()

	require.NoError(t, b.AssignRepeat(1000, 's'))
	require.NoError(t, b.AssignRepeat(10, 's')) // large spare capacity now
	require.Greater(t, b.Cap(), 512)

	require.NoError(t, b.ShrinkToFit())
	assert.Equal(t, 10, b.Len(), "ShrinkToFit must not change the length")
	assert.GreaterOrEqual(t, b.Cap(), b.Len()+1)
	assert.Equal(t, DefaultBlockSize, b.Cap())

	// Within one block of minimal: no rebuild.
	capBefore := b.Cap()
	require.NoError(t, b.ShrinkToFit())
	assert.Equal(t, capBefore, b.Cap())

	// Empty but still owning storage: release entirely.
	b.Clear()
	require.NoError(t, b.ShrinkToFit())
	assert.Zero(t, b.Cap())
	assert.Zero(t, b.Len())
}

func TestSwap(t *testing.T) {
	pool := newTestPool(t, &stubSource{pageSize: 4096})
	a := New(pool, &Options{BlockSize: 32})
	b := New(pool, nil)
	defer a.Destroy()
	defer b.Destroy()

	require.NoError(t, a.AssignString("alpha"))
	require.NoError(t, b.AssignString("bravo-bravo"))

	a.Swap(b)
	assert.Equal(t, "bravo-bravo", a.String())
	assert.Equal(t, "alpha", b.String())
	assert.Equal(t, DefaultBlockSize, a.BlockSize())
	assert.Equal(t, 32, b.BlockSize())

	// Swapping with an empty buffer leaves a valid empty side.
	empty := New(pool, nil)
	a.Swap(empty)
	assert.Zero(t, a.Len())
	assert.Zero(t, a.Cap())
	assert.Equal(t, "bravo-bravo", empty.String())
	require.NoError(t, empty.Destroy())
}

func TestClone(t *testing.T) {
	src := &stubSource{pageSize: 4096}
	pool := newTestPool(t, src)
	other := newTestPool(t, &stubSource{pageSize: 4096})

	b := New(pool, &Options{BlockSize: 64})
	defer b.Destroy()
	require.NoError(t, b.AssignString("clone me"))

	c, err := b.Clone(nil)
	require.NoError(t, err)
	defer c.Destroy()
	assert.Equal(t, "clone me", c.String())
	assert.Equal(t, 64, c.BlockSize())
	assert.Same(t, pool, c.Pool())

	d, err := b.Clone(other)
	require.NoError(t, err)
	defer d.Destroy()
	assert.Equal(t, "clone me", d.String())
	assert.Same(t, other, d.Pool())

	// Mutating the clone must not touch the original.
	require.NoError(t, c.AssignString("changed"))
	assert.Equal(t, "clone me", b.String())
}

func TestDestroy_WipesAndReleases(t *testing.T) {
	src := &stubSource{pageSize: 4096}
	pool := newTestPool(t, src)

	b := New(pool, nil)
	require.NoError(t, b.AssignString("ephemeral"))
	mem := b.mem

	require.NoError(t, b.Destroy())
	assert.Zero(t, b.Len())
	assert.Zero(t, b.Cap())
	assert.True(t, allZero(mem))
	assert.Zero(t, pool.Stats().Pages)

	require.NoError(t, b.Destroy(), "Destroy must be idempotent")

	// The buffer stays usable after Destroy.
	require.NoError(t, b.AssignString("again"))
	assert.Equal(t, "again", b.String())
	require.NoError(t, b.Destroy())
}

func TestBytes_EmptyAndView(t *testing.T) {
	pool := newTestPool(t, &stubSource{pageSize: 4096})
	b := New(pool, nil)
	defer b.Destroy()

	assert.Nil(t, b.Bytes())
	assert.Equal(t, "", b.String())

	require.NoError(t, b.AssignString("view"))
	v := b.Bytes()
	assert.Equal(t, []byte("view"), v)
	assert.Equal(t, 4, cap(v), "view must not expose spare capacity")
}
