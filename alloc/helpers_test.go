package alloc

import "errors"

// testSource is an in-process PageSource backed by make. Segment
// bookkeeping is address-based over whatever region it is given, so the
// fake does not need real page alignment; it only needs to honor the
// advertised page size.
type testSource struct {
	pageSize int

	allocs   int // total Allocate calls
	frees    int // total Free calls
	live     int // outstanding regions
	lastSize int // size of the most recent Allocate

	locks    int
	unlocks  int
	dumpsOff int
	dumpsOn  int

	failAlloc bool // next Allocate fails
	failLock  bool // Lock always fails
}

func newTestSource(pageSize int) *testSource {
	return &testSource{pageSize: pageSize}
}

func (s *testSource) PageSize() int { return s.pageSize }

func (s *testSource) Allocate(size int) ([]byte, error) {
	if s.failAlloc {
		return nil, errors.New("mmap: cannot allocate memory")
	}
	s.allocs++
	s.live++
	s.lastSize = size
	return make([]byte, size), nil
}

func (s *testSource) Free(b []byte) error {
	s.frees++
	s.live--
	return nil
}

func (s *testSource) Lock(b []byte) error {
	if s.failLock {
		return errors.New("mlock: cannot allocate memory")
	}
	s.locks++
	return nil
}

func (s *testSource) Unlock(b []byte) error {
	s.unlocks++
	return nil
}

func (s *testSource) DisableDump(b []byte) error {
	s.dumpsOff++
	return nil
}

func (s *testSource) EnableDump(b []byte) error {
	s.dumpsOn++
	return nil
}

// leakRecorder captures ReportLeaks invocations.
type leakRecorder struct {
	calls int
	leaks []Leak
}

func (r *leakRecorder) ReportLeaks(leaks []Leak) {
	r.calls++
	r.leaks = append(r.leaks, leaks...)
}
