// Package buffer implements a growable byte buffer whose backing
// storage is swap-locked, excluded from core dumps, and zero-filled
// before it is ever reused or released.
//
// # Overview
//
// A Buffer tracks a length and a capacity over storage drawn from an
// alloc.Pool in block-size increments (128 bytes by default). Its
// contract is that no byte of secret material survives past the point
// it logically stops being part of the buffer:
//
//   - shrinking operations (PopBack, Erase, Resize, Clear) wipe the
//     vacated range immediately,
//   - growth never happens in place: content migrates to fresh storage
//     and the old storage is wiped before it goes back to the pool,
//   - Destroy wipes the whole capacity and releases it.
//
// An empty Buffer holds no allocation at all (nil storage), so
// default-state buffers never touch the pool.
//
// # Usage
//
//	pool, err := alloc.New(nil)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	b := buffer.New(pool, nil)
//	defer b.Destroy()
//
//	if err := b.AssignString(passphrase); err != nil {
//	    return err
//	}
//
// # Error behavior
//
// Every mutating operation validates before mutating: on any returned
// error the buffer is unchanged. Out-of-range positions yield
// ErrOutOfRange, requests beyond the pool's maximum yield ErrCapacity,
// and pool exhaustion surfaces as alloc.ErrOutOfMemory.
//
// Byte slices passed to Assign, Append, Insert and Replace must not
// alias the buffer's own storage: growth migrates and wipes the old
// storage, which would destroy the argument mid-operation.
//
// # Thread safety
//
// A Buffer is a single-owner value with no internal locking; concurrent
// use of one Buffer requires external synchronization. The Pool behind
// it is safe to share.
package buffer
