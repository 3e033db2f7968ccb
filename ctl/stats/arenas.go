package stats

import (
	"github.com/jemkit/jemkit/ctl"
	"github.com/jemkit/jemkit/ctl/arenas"
)

// Per-arena statistics (stats.arenas.<i>.*). Accessors are bound to one
// arena index at construction; the index is validated against the live
// arena count before the native lookup, so an out-of-range arena fails with
// ErrInvalidArgument without reaching the surface.

func arenaStat(ch *ctl.Channel, key string, arena uint32) (*ctl.Uint64Knob, error) {
	return ctl.NewUint64(ch, ctl.Def{
		Key:    key,
		Access: ctl.ReadOnly,
		Cached: true,
		Bounds: []ctl.BoundFunc{arenas.Bound(ch)},
	}, uint64(arena))
}

// ArenaSmallAllocated binds the bytes in small allocations for one arena.
func ArenaSmallAllocated(ch *ctl.Channel, arena uint32) (*ctl.Uint64Knob, error) {
	return arenaStat(ch, "stats.arenas.<i>.small.allocated", arena)
}

// ArenaLargeAllocated binds the bytes in large allocations for one arena.
func ArenaLargeAllocated(ch *ctl.Channel, arena uint32) (*ctl.Uint64Knob, error) {
	return arenaStat(ch, "stats.arenas.<i>.large.allocated", arena)
}

// ArenaMapped binds the mapped bytes for one arena.
func ArenaMapped(ch *ctl.Channel, arena uint32) (*ctl.Uint64Knob, error) {
	return arenaStat(ch, "stats.arenas.<i>.mapped", arena)
}

// ArenaResident binds the resident bytes for one arena.
func ArenaResident(ch *ctl.Channel, arena uint32) (*ctl.Uint64Knob, error) {
	return arenaStat(ch, "stats.arenas.<i>.resident", arena)
}

// ArenaPActive binds the arena's count of active pages.
func ArenaPActive(ch *ctl.Channel, arena uint32) (*ctl.Uint64Knob, error) {
	return arenaStat(ch, "stats.arenas.<i>.pactive", arena)
}

// ArenaPDirty binds the arena's count of dirty pages.
func ArenaPDirty(ch *ctl.Channel, arena uint32) (*ctl.Uint64Knob, error) {
	return arenaStat(ch, "stats.arenas.<i>.pdirty", arena)
}

// ArenaPMuzzy binds the arena's count of muzzy pages.
func ArenaPMuzzy(ch *ctl.Channel, arena uint32) (*ctl.Uint64Knob, error) {
	return arenaStat(ch, "stats.arenas.<i>.pmuzzy", arena)
}

// ArenaNThreads binds the number of threads currently assigned to the arena.
func ArenaNThreads(ch *ctl.Channel, arena uint32) (*ctl.Uint32Knob, error) {
	return ctl.NewUint32(ch, ctl.Def{
		Key:    "stats.arenas.<i>.nthreads",
		Access: ctl.ReadOnly,
		Cached: true,
		Bounds: []ctl.BoundFunc{arenas.Bound(ch)},
	}, uint64(arena))
}
