package alloc

import (
	"fmt"
	"log/slog"
	"math/bits"
	"sync"
	"unsafe"

	"github.com/memvault/memvault/osmem"
)

const (
	// SegmentSize is the fixed sub-chunk allocation unit in bytes.
	SegmentSize = 64

	// ChunkSize is the size of one chunk in bytes. Every page is a whole
	// number of chunks.
	ChunkSize = 4096

	// segmentsPerChunk is the number of segments in one chunk, and the
	// width of a chunk's free mask.
	segmentsPerChunk = ChunkSize / SegmentSize

	// maxAllocSize is the theoretical single-allocation bound. It is not
	// aware of available memory; the page source fails first in practice.
	maxAllocSize = 1<<31 - 1
)

// page is one region obtained from the PageSource, subdivided into
// chunks. base caches the address of mem[0] for range checks.
type page struct {
	mem  []byte
	base uintptr
}

// chunk is a ChunkSize window of a page. free has one bit per segment,
// 1 = free, bit i = segment i.
type chunk struct {
	page *page
	mem  []byte
	base uintptr
	free uint64
}

// area is an unmanaged multi-page allocation: requests larger than one
// chunk bypass segment bookkeeping entirely. mem spans the whole
// page-rounded region; the caller's slice is a prefix of it.
type area struct {
	mem []byte
}

// Options configures a Pool. The zero value (or a nil pointer) selects
// the osmem page source, no leak reporting, and the default slog logger.
type Options struct {
	// Source supplies pages. Nil selects osmem.New().
	Source PageSource

	// Leaks receives still-live allocations when the pool is closed. Nil
	// disables leak reporting.
	Leaks LeakReporter

	// Logger receives warnings when advisory page operations (lock,
	// unlock, dump toggling) fail. Nil selects slog.Default().
	Logger *slog.Logger
}

// Stats is a snapshot of a Pool's bookkeeping.
type Stats struct {
	Pages        int // pages currently under segment management
	Chunks       int // chunks across those pages
	Areas        int // live unmanaged areas
	FreeSegments int // free segments across all chunks
}

// Pool hands out swap-locked, dump-excluded memory. Sub-chunk requests
// are served from 64-byte segments; larger requests get dedicated pages.
// Create one with New; the zero value is not usable.
type Pool struct {
	src           PageSource
	pageSize      int
	chunksPerPage int
	leaks         LeakReporter
	log           *slog.Logger

	mu     sync.Mutex
	chunks []*chunk // allocation order; scanned first-fit
	areas  []*area
	closed bool
}

// New creates a Pool. opts may be nil.
func New(opts *Options) (*Pool, error) {
	if opts == nil {
		opts = &Options{}
	}
	src := opts.Source
	if src == nil {
		src = osmem.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageSize := src.PageSize()
	if pageSize <= 0 || pageSize%ChunkSize != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadPageSize, pageSize)
	}
	return &Pool{
		src:           src,
		pageSize:      pageSize,
		chunksPerPage: pageSize / ChunkSize,
		leaks:         opts.Leaks,
		log:           logger,
	}, nil
}

// MaxSize returns the theoretical maximum size of a single allocation.
func (p *Pool) MaxSize() int {
	return maxAllocSize
}

// PageSize returns the page size the pool was built with.
func (p *Pool) PageSize() int {
	return p.pageSize
}

// Allocate returns a slice of exactly size bytes of locked memory.
// Fresh pages come back zeroed, but reused segments carry whatever the
// previous holder left behind unless it wiped before Deallocate; callers
// holding secrets should wipe on receipt. Allocate(0) returns nil
// without touching the page source. The returned slice must be given
// back via Deallocate.
func (p *Pool) Allocate(size int) ([]byte, error) {
	if size < 0 || size > maxAllocSize {
		return nil, fmt.Errorf("%w: %d", ErrSizeTooLarge, size)
	}
	if size == 0 {
		return nil, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if n := segmentsFor(size); n <= segmentsPerChunk {
		return p.allocateSegments(size, n)
	}
	return p.allocateArea(size)
}

// allocateSegments serves a request of n segments from the first chunk
// with n contiguous free segments, creating a new page when none has
// room. Caller holds p.mu.
func (p *Pool) allocateSegments(size, n int) ([]byte, error) {
	mask := segmentMask(n)
	for _, c := range p.chunks {
		for pos := 0; pos <= segmentsPerChunk-n; pos++ {
			slid := mask << uint(pos)
			if c.free&slid == slid {
				c.free &^= slid
				off := pos * SegmentSize
				return c.mem[off : off+size : off+n*SegmentSize], nil
			}
		}
	}

	pg, err := p.newPage(p.pageSize)
	if err != nil {
		return nil, err
	}
	first := len(p.chunks)
	for i := 0; i < p.chunksPerPage; i++ {
		mem := pg.mem[i*ChunkSize : (i+1)*ChunkSize]
		p.chunks = append(p.chunks, &chunk{
			page: pg,
			mem:  mem,
			base: uintptr(unsafe.Pointer(&mem[0])),
			free: ^uint64(0),
		})
	}
	c := p.chunks[first]
	c.free &^= mask
	return c.mem[0:size : n*SegmentSize], nil
}

// allocateArea serves a larger-than-chunk request with a dedicated
// page-rounded region. Caller holds p.mu.
func (p *Pool) allocateArea(size int) ([]byte, error) {
	rounded := roundUp(size, p.pageSize)
	mem, err := p.mapRegion(rounded)
	if err != nil {
		return nil, err
	}
	p.areas = append(p.areas, &area{mem: mem})
	return mem[:size:rounded], nil
}

// Deallocate returns memory to the pool. b must be the exact slice
// returned by Allocate: the address selects the allocation and the
// length restores the segment mask. Deallocating nil is a no-op.
func (p *Pool) Deallocate(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	addr := uintptr(unsafe.Pointer(&b[0]))
	if n := segmentsFor(len(b)); n <= segmentsPerChunk {
		return p.freeSegments(addr, n)
	}
	return p.freeArea(addr)
}

// freeSegments marks n segments starting at addr free again and releases
// the owning page once every chunk of it is fully free. Caller holds p.mu.
func (p *Pool) freeSegments(addr uintptr, n int) error {
	for _, c := range p.chunks {
		if addr < c.base || addr >= c.base+ChunkSize {
			continue
		}
		idx := int(addr-c.base) / SegmentSize
		c.free |= segmentMask(n) << uint(idx)
		if c.free == ^uint64(0) && p.pageFree(c.page) {
			p.releasePage(c.page)
		}
		return nil
	}
	return ErrBadAddress
}

// freeArea releases the unmanaged area starting at addr. Caller holds p.mu.
func (p *Pool) freeArea(addr uintptr) error {
	for i, a := range p.areas {
		if uintptr(unsafe.Pointer(&a.mem[0])) != addr {
			continue
		}
		p.unmapRegion(a.mem)
		p.areas = append(p.areas[:i], p.areas[i+1:]...)
		return nil
	}
	return ErrBadAddress
}

// Stats returns a snapshot of the pool's bookkeeping.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Stats{Chunks: len(p.chunks), Areas: len(p.areas)}
	if p.chunksPerPage > 0 {
		s.Pages = len(p.chunks) / p.chunksPerPage
	}
	for _, c := range p.chunks {
		s.FreeSegments += bits.OnesCount64(c.free)
	}
	return s
}

// pageFree reports whether every chunk of pg is fully free. Caller
// holds p.mu.
func (p *Pool) pageFree(pg *page) bool {
	for _, c := range p.chunks {
		if c.page == pg && c.free != ^uint64(0) {
			return false
		}
	}
	return true
}

// releasePage unlocks pg, makes it dumpable again, returns it to the
// source, and drops its chunks. Caller holds p.mu.
func (p *Pool) releasePage(pg *page) {
	p.unmapRegion(pg.mem)
	kept := p.chunks[:0]
	for _, c := range p.chunks {
		if c.page != pg {
			kept = append(kept, c)
		}
	}
	// Let dropped chunk headers be collected.
	for i := len(kept); i < len(p.chunks); i++ {
		p.chunks[i] = nil
	}
	p.chunks = kept
}

// newPage maps, locks and dump-excludes one region of size bytes and
// wraps it as a page. Caller holds p.mu.
func (p *Pool) newPage(size int) (*page, error) {
	mem, err := p.mapRegion(size)
	if err != nil {
		return nil, err
	}
	return &page{mem: mem, base: uintptr(unsafe.Pointer(&mem[0]))}, nil
}

// mapRegion obtains size bytes from the source, locked and excluded from
// dumps. Lock and dump failures are advisory: logged, not propagated.
func (p *Pool) mapRegion(size int) ([]byte, error) {
	mem, err := p.src.Allocate(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	if err := p.src.Lock(mem); err != nil {
		p.log.Warn("memory lock failed; region may be swapped", "size", size, "error", err)
	}
	if err := p.src.DisableDump(mem); err != nil {
		p.log.Warn("core dump exclusion failed; region may be dumped", "size", size, "error", err)
	}
	return mem, nil
}

// unmapRegion reverses mapRegion. Unlock and dump-reenable failures are
// advisory; a Free failure is logged too, since there is nothing a
// caller could do with it mid-teardown.
func (p *Pool) unmapRegion(mem []byte) {
	if err := p.src.Unlock(mem); err != nil {
		p.log.Warn("memory unlock failed", "size", len(mem), "error", err)
	}
	if err := p.src.EnableDump(mem); err != nil {
		p.log.Warn("core dump re-enable failed", "size", len(mem), "error", err)
	}
	if err := p.src.Free(mem); err != nil {
		p.log.Warn("page free failed", "size", len(mem), "error", err)
	}
}

// roundUp rounds n up to the next multiple of unit.
func roundUp(n, unit int) int {
	return (n + unit - 1) / unit * unit
}
