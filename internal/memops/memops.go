// Package memops provides the byte primitives the secure buffer builds
// on. Go's copy builtin already gives overlap-safe moves and the bytes
// package covers compare/find; what the standard library does not
// guarantee is that a zeroing store to memory about to be released
// survives dead-store analysis, so wiping lives here.
package memops

import "runtime"

// Wipe overwrites b with zero bytes. The KeepAlive fence keeps the
// stores from being treated as dead when b is released right after.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// Fill overwrites b with c.
func Fill(b []byte, c byte) {
	for i := range b {
		b[i] = c
	}
}
