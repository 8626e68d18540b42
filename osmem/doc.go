// Package osmem provides the operating-system page source backing the
// alloc package: anonymous page-aligned mappings that can be locked
// against swapping and excluded from core dumps.
//
// On Linux the implementation talks to the kernel directly
// (mmap/mlock/madvise via golang.org/x/sys/unix) and supports per-region
// dump exclusion with MADV_DONTDUMP. Everywhere else it defers to
// github.com/awnumar/memcall, which wraps the platform equivalents;
// there, dump exclusion rides along with Lock where the platform
// supports it at all.
//
// All locking is best-effort. A failed mlock means the region may be
// swapped to disk before it is wiped; callers treat that as a degraded
// condition, not an error.
package osmem
