// Package alloc provides a swap-locked, dump-excluded memory pool for
// secret material.
//
// # Overview
//
// The Pool owns pages obtained from a PageSource (anonymous mappings on
// real operating systems, fakes in tests). Every page is locked against
// swapping and excluded from core dumps before any byte of it is handed
// out. Pages are subdivided into 4096-byte chunks, and chunks into 64
// segments of 64 bytes each, tracked by a single 64-bit free mask per
// chunk. Requests of up to one chunk (4096 bytes) are served from
// segments; anything larger becomes an unmanaged area: a dedicated
// multi-page mapping tracked as one address/size record.
//
// # Allocation
//
//	pool, err := alloc.New(nil) // osmem-backed, no leak reporting
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	buf, err := pool.Allocate(256) // 4 segments of one chunk
//	if err != nil {
//	    return err
//	}
//	// ... use buf ...
//	err = pool.Deallocate(buf)
//
// Deallocate must receive the exact slice returned by Allocate. A page is
// returned to its source (unlocked, made dumpable again, unmapped) as soon
// as the last segment of its last in-use chunk is freed.
//
// # Leak reporting
//
// A Pool configured with a LeakReporter sweeps its bookkeeping on Close:
// contiguous runs of still-reserved segments are merged into single Leak
// records, unmanaged areas are reported individually, and the reporter
// receives the complete list in one call. Reporting happens before the
// underlying pages are released.
//
// # Adapter
//
// Adapter[T] is a lightweight per-element-type view of a Pool used by
// container types (see the buffer package). It scales counts by the
// element size and otherwise forwards to the Pool it was created from.
//
// # Thread safety
//
// All Pool bookkeeping is serialized behind one mutex; Allocate,
// Deallocate, Stats and Close are safe for concurrent use. Adapters are
// plain values and carry no state beyond the Pool reference.
package alloc
