//go:build linux

package osmem

import (
	"os"

	"golang.org/x/sys/unix"
)

// Source hands out anonymous private mappings. The kernel page-aligns
// every mapping, so no explicit alignment handling is needed.
type Source struct{}

// New returns the Linux page source.
func New() Source { return Source{} }

// PageSize returns the system page size.
func (Source) PageSize() int { return os.Getpagesize() }

// Allocate maps size bytes of zeroed anonymous memory.
func (Source) Allocate(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
}

// Free unmaps a region returned by Allocate.
func (Source) Free(b []byte) error { return unix.Munmap(b) }

// Lock pins the region into physical memory. Fails with EPERM/ENOMEM
// when RLIMIT_MEMLOCK is exhausted.
func (Source) Lock(b []byte) error { return unix.Mlock(b) }

// Unlock releases the swap pin.
func (Source) Unlock(b []byte) error { return unix.Munlock(b) }

// DisableDump excludes the region from core dumps.
func (Source) DisableDump(b []byte) error { return unix.Madvise(b, unix.MADV_DONTDUMP) }

// EnableDump re-includes the region in core dumps.
func (Source) EnableDump(b []byte) error { return unix.Madvise(b, unix.MADV_DODUMP) }
