package ctl

import "sync"

// stubSurface is a minimal scriptable surface for white-box channel and
// template tests. The full-fidelity simulation lives in ctltest; this stub
// exists so the core tests can force exact native behaviors (specific errno
// codes, reported widths) without the simulation's semantics in the way.
type stubSurface struct {
	mu      sync.Mutex
	caps    Caps
	mibs    map[string]MIB
	lookups map[string]int
	calls   int
	byMIB   func(mib MIB, old, new []byte) (int, Errno)
}

func newStub() *stubSurface {
	return &stubSurface{
		caps:    Caps{Exchange: true, Stats: true, Prof: true, BackgroundThread: true},
		mibs:    map[string]MIB{},
		lookups: map[string]int{},
		byMIB: func(MIB, []byte, []byte) (int, Errno) {
			return 0, ErrnoOK
		},
	}
}

func (s *stubSurface) Caps() Caps { return s.caps }

func (s *stubSurface) NameToMIB(name string) (MIB, Errno) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups[name]++
	mib, ok := s.mibs[name]
	if !ok {
		return nil, ErrnoNoEnt
	}
	return mib, ErrnoOK
}

func (s *stubSurface) ByMIB(mib MIB, old, new []byte) (int, Errno) {
	s.mu.Lock()
	s.calls++
	fn := s.byMIB
	s.mu.Unlock()
	return fn(mib, old, new)
}

func (s *stubSurface) lookupCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups[name]
}

func (s *stubSurface) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
