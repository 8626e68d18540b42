package buffer

import (
	"bytes"
	"crypto/subtle"

	"github.com/zeebo/blake3"
)

// Fingerprint returns the BLAKE3 digest of the content. It lets callers
// compare, deduplicate or audit secrets without ever exporting the
// bytes themselves.
func (b *Buffer) Fingerprint() [32]byte {
	return blake3.Sum256(b.Bytes())
}

// Equal reports whether b and o hold identical content. The comparison
// is constant-time in the content length, so it is safe to use on
// attacker-influenced inputs.
func (b *Buffer) Equal(o *Buffer) bool {
	return subtle.ConstantTimeCompare(b.Bytes(), o.Bytes()) == 1
}

// EqualBytes reports whether the content equals p, in constant time.
func (b *Buffer) EqualBytes(p []byte) bool {
	return subtle.ConstantTimeCompare(b.Bytes(), p) == 1
}

// Index returns the offset of the first occurrence of p in the content,
// or -1 if p is absent.
func (b *Buffer) Index(p []byte) int {
	return bytes.Index(b.Bytes(), p)
}

// Contains reports whether p occurs in the content.
func (b *Buffer) Contains(p []byte) bool {
	return b.Index(p) >= 0
}
