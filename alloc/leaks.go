package alloc

import (
	"math/bits"
	"unsafe"
)

// Leak is one allocation still reserved when the pool was closed.
// Adjacent reserved segments within a chunk are merged into a single
// record, so one Leak may cover several original allocations.
type Leak struct {
	Addr uintptr
	Size int
}

// LeakReporter receives every leak found during Close in one call.
// The reporter runs with the pool's lock held and must not call back
// into the pool.
type LeakReporter interface {
	ReportLeaks(leaks []Leak)
}

// LeakReporterFunc adapts a function to the LeakReporter interface.
type LeakReporterFunc func(leaks []Leak)

// ReportLeaks calls f.
func (f LeakReporterFunc) ReportLeaks(leaks []Leak) { f(leaks) }

// Close sweeps the pool for live allocations, hands them to the leak
// reporter (if any), then releases every page and area back to the
// source. Close is idempotent; after it returns the pool rejects all
// further operations with ErrClosed.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var leaks []Leak
	for _, c := range p.chunks {
		leaks = appendChunkLeaks(leaks, c)
	}
	for _, a := range p.areas {
		leaks = append(leaks, Leak{Addr: uintptr(unsafe.Pointer(&a.mem[0])), Size: len(a.mem)})
	}
	if p.leaks != nil && len(leaks) > 0 {
		p.leaks.ReportLeaks(leaks)
	}

	seen := make(map[*page]bool)
	for _, c := range p.chunks {
		if !seen[c.page] {
			seen[c.page] = true
			p.unmapRegion(c.page.mem)
		}
	}
	for _, a := range p.areas {
		p.unmapRegion(a.mem)
	}
	p.chunks = nil
	p.areas = nil
	return nil
}

// appendChunkLeaks extracts every contiguous run of reserved segments
// from c, marking each run free as it goes, until the chunk is all-free.
// A run starts at the first 0 bit and extends through subsequent 0s.
func appendChunkLeaks(leaks []Leak, c *chunk) []Leak {
	for c.free != ^uint64(0) {
		start := bits.TrailingZeros64(^c.free)
		run := bits.TrailingZeros64(c.free >> uint(start))
		if start+run > segmentsPerChunk {
			run = segmentsPerChunk - start
		}
		leaks = append(leaks, Leak{
			Addr: c.base + uintptr(start*SegmentSize),
			Size: run * SegmentSize,
		})
		c.free |= segmentMask(run) << uint(start)
	}
	return leaks
}
