package buffer

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memvault/memvault/alloc"
)

// stubSource is an in-process page source so buffer tests run without
// real mappings or lock limits.
type stubSource struct {
	pageSize  int
	allocs    int
	live      int
	failAlloc bool
}

func (s *stubSource) PageSize() int { return s.pageSize }

func (s *stubSource) Allocate(size int) ([]byte, error) {
	if s.failAlloc {
		return nil, errors.New("mmap: cannot allocate memory")
	}
	s.allocs++
	s.live++
	return make([]byte, size), nil
}

func (s *stubSource) Free(b []byte) error        { s.live--; return nil }
func (s *stubSource) Lock(b []byte) error        { return nil }
func (s *stubSource) Unlock(b []byte) error      { return nil }
func (s *stubSource) DisableDump(b []byte) error { return nil }
func (s *stubSource) EnableDump(b []byte) error  { return nil }

type devNull struct{}

func (devNull) Write(p []byte) (int, error) { return len(p), nil }

func newTestPool(t testing.TB, src *stubSource) *alloc.Pool {
	t.Helper()
	p, err := alloc.New(&alloc.Options{
		Source: src,
		Logger: slog.New(slog.NewTextHandler(devNull{}, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// allZero reports whether every byte of b is zero.
func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
