package ctltest

// Simulated heap backing the surface's statistics. Each arena bump-allocates
// out of mapped slabs: O(1) allocation, no free lists, freed space never
// reused (freed pages just turn dirty until purged). That is deliberately
// simpler than a real allocator, but every statistic the catalog exposes is
// derived from real accounting, so epoch semantics are observable: allocate,
// advance, and stats.allocated moves by at least the requested size.

const (
	pageSize = 4096
	quantum  = 16

	// slabBytes is the default extent size an arena maps at a time.
	slabBytes = 256 * 1024

	// smallMax is the largest request accounted to the small bins.
	smallMax = 14336

	// metadataBase and metadataPerSlab approximate the native side's fixed
	// and per-extent bookkeeping overhead.
	metadataBase    = 64 * 1024
	metadataPerSlab = 256
)

// allocation records one live Malloc for Free to reverse.
type allocation struct {
	arena int
	size  uint64
	pages uint64
}

// simArena is one simulated arena.
type simArena struct {
	slabs    [][]byte
	bump     int // offset of the next allocation in the last slab
	mapped   uint64
	retained uint64

	smallAllocated uint64
	largeAllocated uint64
	pactive        uint64
	pdirty         uint64
	pmuzzy         uint64
	nthreads       uint32

	dss          string
	dirtyDecayMS int64
	muzzyDecayMS int64
}

func newSimArena(dirtyDecay, muzzyDecay int64) *simArena {
	return &simArena{
		dss:          "secondary",
		dirtyDecayMS: dirtyDecay,
		muzzyDecayMS: muzzyDecay,
	}
}

// grow maps enough backing for an allocation of size bytes.
func (a *simArena) grow(size int) error {
	need := slabBytes
	if size > need {
		need = alignUp(size, pageSize)
	}
	slab, err := mapSlab(need)
	if err != nil {
		return err
	}
	a.slabs = append(a.slabs, slab)
	a.bump = 0
	a.mapped += uint64(need)
	return nil
}

// alloc bump-allocates size bytes and updates the live counters.
func (a *simArena) alloc(size int) error {
	size = alignUp(size, quantum)
	if len(a.slabs) == 0 || a.bump+size > len(a.slabs[len(a.slabs)-1]) {
		if err := a.grow(size); err != nil {
			return err
		}
	}
	a.bump += size

	pages := uint64(alignUp(size, pageSize) / pageSize)
	a.pactive += pages
	if size <= smallMax {
		a.smallAllocated += uint64(size)
	} else {
		a.largeAllocated += uint64(size)
	}
	return nil
}

// free reverses the live accounting of one allocation; the pages turn dirty.
func (a *simArena) free(al allocation) {
	if al.size <= smallMax {
		a.smallAllocated -= al.size
	} else {
		a.largeAllocated -= al.size
	}
	a.pactive -= al.pages
	a.pdirty += al.pages
}

// purge discards dirty and muzzy pages; the address space is retained.
func (a *simArena) purge() {
	a.retained += (a.pdirty + a.pmuzzy) * pageSize
	a.pdirty = 0
	a.pmuzzy = 0
}

// decay demotes dirty pages to muzzy, the intermediate lazily-purged state.
func (a *simArena) decay() {
	a.pmuzzy += a.pdirty
	a.pdirty = 0
}

// reset discards all live allocations in the arena.
func (a *simArena) reset() {
	a.pdirty += a.pactive
	a.pactive = 0
	a.smallAllocated = 0
	a.largeAllocated = 0
}

func (a *simArena) allocated() uint64 { return a.smallAllocated + a.largeAllocated }
func (a *simArena) resident() uint64  { return (a.pactive + a.pdirty) * pageSize }

// release unmaps the arena's slabs.
func (a *simArena) release() {
	for _, s := range a.slabs {
		_ = unmapSlab(s)
	}
	a.slabs = nil
}

// arenaStats is the epoch snapshot of one arena.
type arenaStats struct {
	smallAllocated uint64
	largeAllocated uint64
	mapped         uint64
	resident       uint64
	pactive        uint64
	pdirty         uint64
	pmuzzy         uint64
	nthreads       uint32
}

// globalStats is the epoch snapshot of the process-wide totals.
type globalStats struct {
	allocated uint64
	active    uint64
	metadata  uint64
	resident  uint64
	mapped    uint64
	retained  uint64
}

func alignUp(n, to int) int {
	return (n + to - 1) &^ (to - 1)
}
