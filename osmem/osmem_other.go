//go:build !linux

package osmem

import (
	"os"

	"github.com/awnumar/memcall"
)

// Source hands out anonymous page-aligned regions via memcall, which
// wraps the platform allocation and locking primitives (mmap/mlock on
// the BSDs and darwin, VirtualAlloc/VirtualLock on Windows).
//
// Known limitation carried over from the underlying primitives: Windows
// keeps no per-page lock count, so VirtualUnlock on a region may take
// effect while an overlapping lock is still wanted. Regions here are
// never overlapped, but the unlock of a region freed early is not
// guaranteed to leave neighbouring locked regions pinned.
type Source struct{}

// New returns the portable page source.
func New() Source { return Source{} }

// PageSize returns the system page size.
func (Source) PageSize() int { return os.Getpagesize() }

// Allocate obtains size bytes of zeroed page-aligned memory.
func (Source) Allocate(size int) ([]byte, error) { return memcall.Alloc(size) }

// Free releases a region returned by Allocate.
func (Source) Free(b []byte) error { return memcall.Free(b) }

// Lock pins the region into physical memory. Where the platform
// supports it, memcall also excludes locked regions from core dumps.
func (Source) Lock(b []byte) error { return memcall.Lock(b) }

// Unlock releases the swap pin.
func (Source) Unlock(b []byte) error { return memcall.Unlock(b) }

// DisableDump is a no-op: dump exclusion happens in Lock where the
// platform has any per-region control.
func (Source) DisableDump(b []byte) error { return nil }

// EnableDump is a no-op, matching DisableDump.
func (Source) EnableDump(b []byte) error { return nil }
