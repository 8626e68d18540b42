package alloc

// PageSource supplies the page-aligned memory a Pool manages. The osmem
// package provides the real implementation; tests inject fakes.
//
// Lock, Unlock, DisableDump and EnableDump are advisory: the Pool logs
// their failures and carries on, because a buffer that may be swapped or
// dumped is degraded, not broken. Allocate and Free failures are real
// errors.
type PageSource interface {
	// PageSize returns the size of one page in bytes. It is queried once,
	// at Pool construction, and must be a positive multiple of 4096.
	PageSize() int

	// Allocate returns a fresh zero-filled region of exactly size bytes,
	// aligned to the page size.
	Allocate(size int) ([]byte, error)

	// Free releases a region previously returned by Allocate.
	Free(b []byte) error

	// Lock pins the region into physical memory so it cannot be swapped.
	Lock(b []byte) error

	// Unlock releases the swap pin.
	Unlock(b []byte) error

	// DisableDump excludes the region from core dumps.
	DisableDump(b []byte) error

	// EnableDump re-includes the region in core dumps.
	EnableDump(b []byte) error
}
