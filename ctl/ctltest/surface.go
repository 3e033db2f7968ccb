package ctltest

import (
	"strconv"
	"strings"
	"sync"

	"github.com/jemkit/jemkit/ctl"
	"github.com/jemkit/jemkit/internal/format"
)

// Surface is an in-process simulation of the native control surface. The
// knob namespace, MIB numbering, value widths, access directions, and errno
// reporting all follow the native contract, and the statistics are derived
// from a real (if simple) heap simulation, so tests exercise the typed layer
// against honest semantics instead of canned values.
//
// All methods are safe for concurrent use.
type Surface struct {
	mu   sync.Mutex
	caps ctl.Caps
	root *node

	arenas    []*simArena
	nextArena int
	allocs    map[uint64]allocation
	nextAlloc uint64

	epoch      uint64
	snapGlobal globalStats
	snapArenas []arenaStats

	version    string
	mallocConf string

	backgroundThread     bool
	maxBackgroundThreads uint64

	dirtyDecayMS int64
	muzzyDecayMS int64

	threadAllocated   uint64
	threadDeallocated uint64
	threadArena       uint32
	tcacheEnabled     bool
	tcacheFlushes     int

	profActive           bool
	profThreadActiveInit bool
	profInterval         uint64
	profDumps            []string

	lookups map[string]int
	ops     map[string]int
}

// Option configures a Surface under construction.
type Option func(*Surface)

// WithArenas sets the simulated arena count (default 4).
func WithArenas(n int) Option {
	return func(s *Surface) {
		s.arenas = s.arenas[:0]
		for range n {
			s.arenas = append(s.arenas, newSimArena(s.dirtyDecayMS, s.muzzyDecayMS))
		}
	}
}

// WithCaps overrides the capability descriptor (default: everything
// supported). Knob sections gated by a capability are not registered when
// it is absent, so their names resolve to ErrnoNoEnt like on a real build.
func WithCaps(caps ctl.Caps) Option {
	return func(s *Surface) { s.caps = caps }
}

// WithVersion overrides the version string knob.
func WithVersion(v string) Option {
	return func(s *Surface) { s.version = v }
}

// WithMallocConf sets the config.malloc_conf knob value.
func WithMallocConf(conf string) Option {
	return func(s *Surface) { s.mallocConf = conf }
}

// New constructs a simulated surface with the default catalog registered
// and an initial statistics snapshot taken.
func New(opts ...Option) *Surface {
	s := &Surface{
		caps: ctl.Caps{
			Exchange:         true,
			Stats:            true,
			Prof:             true,
			BackgroundThread: true,
		},
		root:                 &node{byName: map[string]int{}},
		allocs:               map[uint64]allocation{},
		version:              "5.3.0-sim",
		maxBackgroundThreads: 4,
		dirtyDecayMS:         10000,
		muzzyDecayMS:         0,
		tcacheEnabled:        true,
		profThreadActiveInit: true,
		lookups:              map[string]int{},
		ops:                  map[string]int{},
	}
	for range 4 {
		s.arenas = append(s.arenas, newSimArena(s.dirtyDecayMS, s.muzzyDecayMS))
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.arenas) > 0 {
		s.arenas[0].nthreads = 1
	}
	s.register()
	s.snapshot()
	return s
}

// Close releases the simulated arenas' backing memory. The surface must not
// be used afterwards.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.arenas {
		a.release()
	}
}

// Caps implements ctl.Surface.
func (s *Surface) Caps() ctl.Caps { return s.caps }

// ---- namespace tree ----

// node is one component of the knob namespace. A literal child's MIB
// component is its slot index; a numeric (wildcard) child's component is the
// index value itself, bounded by wildLimit.
type node struct {
	slots     []childSlot
	byName    map[string]int
	wild      *node
	wildLimit func(s *Surface) uint64
	kn        *knobDef
}

type childSlot struct {
	name string
	n    *node
}

// knobDef is one registered knob: width, direction, and behavior.
type knobDef struct {
	pattern  string // dotted pattern, <i> for numeric components
	width    int    // fixed width; widthVar for strings; 0 for commands
	canRead  bool
	canWrite bool

	read     func(s *Surface, idx []uint64) []byte
	write    func(s *Surface, idx []uint64, b []byte) ctl.Errno
	invoke   func(s *Surface, idx []uint64) ctl.Errno
	exchange func(s *Surface, idx []uint64, b []byte) ([]byte, ctl.Errno)
}

const widthVar = -1

// register installs a knob at its pattern, creating interior nodes.
func (s *Surface) registerKnob(kn *knobDef, wildLimit func(*Surface) uint64) {
	cur := s.root
	for seg := range strings.SplitSeq(kn.pattern, ".") {
		if seg == "<i>" {
			if cur.wild == nil {
				cur.wild = &node{byName: map[string]int{}}
				cur.wildLimit = wildLimit
			}
			cur = cur.wild
			continue
		}
		if i, ok := cur.byName[seg]; ok {
			cur = cur.slots[i].n
			continue
		}
		next := &node{byName: map[string]int{}}
		cur.byName[seg] = len(cur.slots)
		cur.slots = append(cur.slots, childSlot{name: seg, n: next})
		cur = next
	}
	cur.kn = kn
}

// NameToMIB implements ctl.Surface.
func (s *Surface) NameToMIB(name string) (ctl.MIB, ctl.Errno) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups[name]++

	cur := s.root
	var mib ctl.MIB
	for seg := range strings.SplitSeq(name, ".") {
		if i, ok := cur.byName[seg]; ok {
			mib = append(mib, uint64(i))
			cur = cur.slots[i].n
			continue
		}
		if cur.wild != nil {
			idx, err := strconv.ParseUint(seg, 10, 64)
			if err != nil || idx >= cur.wildLimit(s) {
				return nil, ctl.ErrnoNoEnt
			}
			mib = append(mib, idx)
			cur = cur.wild
			continue
		}
		return nil, ctl.ErrnoNoEnt
	}
	if cur.kn == nil {
		return nil, ctl.ErrnoNoEnt
	}
	return mib, ctl.ErrnoOK
}

// walk resolves a MIB to its knob, collecting numeric components.
func (s *Surface) walk(mib ctl.MIB) (*knobDef, []uint64, ctl.Errno) {
	cur := s.root
	var idx []uint64
	for _, comp := range mib {
		if cur.wild != nil {
			if comp >= cur.wildLimit(s) {
				return nil, nil, ctl.ErrnoNoEnt
			}
			idx = append(idx, comp)
			cur = cur.wild
			continue
		}
		if comp >= uint64(len(cur.slots)) || cur.slots[comp].n == nil {
			return nil, nil, ctl.ErrnoNoEnt
		}
		cur = cur.slots[comp].n
	}
	if cur.kn == nil {
		return nil, nil, ctl.ErrnoNoEnt
	}
	return cur.kn, idx, ctl.ErrnoOK
}

// ByMIB implements ctl.Surface.
func (s *Surface) ByMIB(mib ctl.MIB, old, new []byte) (int, ctl.Errno) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kn, idx, code := s.walk(mib)
	if code != ctl.ErrnoOK {
		return 0, code
	}
	s.ops[kn.pattern]++

	switch {
	case old == nil && new == nil:
		if kn.invoke == nil {
			return 0, ctl.ErrnoPerm
		}
		return 0, kn.invoke(s, idx)

	case old != nil && new != nil:
		if !s.caps.Exchange {
			return 0, ctl.ErrnoInval
		}
		if !kn.canRead || !kn.canWrite {
			return 0, ctl.ErrnoPerm
		}
		if kn.width > 0 && len(new) != kn.width {
			return 0, ctl.ErrnoInval
		}
		var prev []byte
		if kn.exchange != nil {
			prev, code = kn.exchange(s, idx, new)
		} else {
			prev = kn.read(s, idx)
			code = kn.write(s, idx, new)
		}
		if code != ctl.ErrnoOK {
			return 0, code
		}
		return copyOut(old, prev), ctl.ErrnoOK

	case new != nil:
		if !kn.canWrite {
			return 0, ctl.ErrnoPerm
		}
		if kn.width > 0 && len(new) != kn.width {
			return 0, ctl.ErrnoInval
		}
		return 0, kn.write(s, idx, new)

	default:
		if !kn.canRead {
			return 0, ctl.ErrnoPerm
		}
		return copyOut(old, kn.read(s, idx)), ctl.ErrnoOK
	}
}

// copyOut copies what fits and reports the value's full width, so callers
// detect shape mismatches by comparing n with their buffer size.
func copyOut(dst, val []byte) int {
	copy(dst, val)
	return len(val)
}

// ---- snapshot ----

// snapshot refreshes the epoch-cached statistics from the live counters.
// Caller holds s.mu.
func (s *Surface) snapshot() {
	var g globalStats
	snaps := make([]arenaStats, len(s.arenas))
	slabCount := 0
	for i, a := range s.arenas {
		snaps[i] = arenaStats{
			smallAllocated: a.smallAllocated,
			largeAllocated: a.largeAllocated,
			mapped:         a.mapped,
			resident:       a.resident(),
			pactive:        a.pactive,
			pdirty:         a.pdirty,
			pmuzzy:         a.pmuzzy,
			nthreads:       a.nthreads,
		}
		g.allocated += a.allocated()
		g.active += a.pactive * pageSize
		g.mapped += a.mapped
		g.retained += a.retained
		slabCount += len(a.slabs)
	}
	g.metadata = metadataBase + uint64(slabCount)*metadataPerSlab
	g.resident = g.metadata
	for _, a := range s.arenas {
		g.resident += a.resident()
	}
	g.mapped += g.metadata
	s.snapGlobal = g
	s.snapArenas = snaps
}

// ---- test hooks ----

// Malloc simulates an application allocation of n bytes and returns a
// handle for Free. Statistics knobs won't observe it until the epoch is
// advanced.
func (s *Surface) Malloc(n int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ai := s.nextArena
	s.nextArena = (s.nextArena + 1) % len(s.arenas)
	a := s.arenas[ai]

	size := alignUp(n, quantum)
	if err := a.alloc(n); err != nil {
		return 0
	}
	s.threadAllocated += uint64(size)

	s.nextAlloc++
	h := s.nextAlloc
	s.allocs[h] = allocation{
		arena: ai,
		size:  uint64(size),
		pages: uint64(alignUp(size, pageSize) / pageSize),
	}
	return h
}

// Free releases a handle returned by Malloc.
func (s *Surface) Free(h uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	al, ok := s.allocs[h]
	if !ok {
		return
	}
	delete(s.allocs, h)
	s.arenas[al.arena].free(al)
	s.threadDeallocated += al.size
}

// Remap moves the named knob to a fresh MIB slot, leaving a hole behind.
// Previously resolved handles for the name start reporting ErrnoNoEnt while
// a fresh lookup succeeds: exactly the staleness the encoder's one-shot
// re-resolution covers.
func (s *Surface) Remap(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.root
	segs := strings.Split(name, ".")
	for _, seg := range segs[:len(segs)-1] {
		i, ok := cur.byName[seg]
		if !ok {
			return false
		}
		cur = cur.slots[i].n
	}
	last := segs[len(segs)-1]
	i, ok := cur.byName[last]
	if !ok {
		return false
	}
	child := cur.slots[i].n
	cur.slots[i].n = nil
	cur.byName[last] = len(cur.slots)
	cur.slots = append(cur.slots, childSlot{name: last, n: child})
	return true
}

// Lookups returns how many NameToMIB calls were made for the exact name.
func (s *Surface) Lookups(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups[name]
}

// Ops returns how many ByMIB calls reached the knob registered under the
// given pattern (for example "prof.dump" or "stats.arenas.<i>.mapped").
func (s *Surface) Ops(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops[pattern]
}

// ArenaCount returns the simulated arena count.
func (s *Surface) ArenaCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.arenas)
}

// EpochValue returns the current epoch counter without advancing it.
func (s *Surface) EpochValue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// ProfDumps returns the paths written to prof.dump, oldest first.
func (s *Surface) ProfDumps() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.profDumps...)
}

// TCacheFlushes returns how many times thread.tcache.flush was invoked.
func (s *Surface) TCacheFlushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tcacheFlushes
}

// ---- value encoding helpers ----

func u32Bytes(v uint32) []byte {
	b := make([]byte, format.U32Size)
	format.PutU32(b, 0, v)
	return b
}

func u64Bytes(v uint64) []byte {
	b := make([]byte, format.U64Size)
	format.PutU64(b, 0, v)
	return b
}

func i64Bytes(v int64) []byte {
	b := make([]byte, format.I64Size)
	format.PutI64(b, 0, v)
	return b
}

func boolBytes(v bool) []byte {
	b := make([]byte, format.BoolSize)
	format.PutBool(b, 0, v)
	return b
}

func strBytes(v string) []byte {
	b := make([]byte, len(v)+1)
	copy(b, v)
	return b
}
