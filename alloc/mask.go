package alloc

// segmentMask returns a mask with the low n bits set, one bit per
// segment, 1 = free. n is clamped to [0, 64]; the n == 64 case cannot be
// produced with a plain shift (shifting by the word width is undefined on
// the machines this convention comes from, and wraps in Go), so it is
// special-cased to all-ones.
//
// Bit position i stands for segment index i within a chunk. The mapping
// is only ever interpreted by this package, so it needs internal
// consistency, not byte-order correctness.
func segmentMask(n int) uint64 {
	if n >= segmentsPerChunk {
		return ^uint64(0)
	}
	return 1<<uint(n) - 1
}

// segmentsFor returns the number of segments needed for a request of
// size bytes.
func segmentsFor(size int) int {
	return (size + SegmentSize - 1) / SegmentSize
}
