// Package arenas binds the arenas.* section of the control namespace: arena
// namespace metadata and the decay defaults inherited by new arenas.
package arenas

import "github.com/jemkit/jemkit/ctl"

// NArenas binds the current arena count. This is the authoritative bound for
// every <i> arena index in the catalog.
func NArenas(ch *ctl.Channel) (*ctl.Uint32Knob, error) {
	return ctl.NewUint32(ch, ctl.Def{Key: "arenas.narenas", Access: ctl.ReadOnly})
}

// Bound returns a BoundFunc over the arena count, for catalogs declaring
// arena-indexed templates. The underlying knob is constructed here, before
// the closure is returned: bound checks run concurrently when several
// goroutines first resolve the same accessor, so the closure must not
// mutate shared state.
func Bound(ch *ctl.Channel) ctl.BoundFunc {
	kn, err := NArenas(ch)
	return func() (uint64, error) {
		if err != nil {
			return 0, err
		}
		n, gerr := kn.Get()
		return uint64(n), gerr
	}
}

// Quantum binds the allocation quantum in bytes.
func Quantum(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return ctl.NewUint64(ch, ctl.Def{Key: "arenas.quantum", Access: ctl.ReadOnly})
}

// Page binds the page size in bytes.
func Page(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return ctl.NewUint64(ch, ctl.Def{Key: "arenas.page", Access: ctl.ReadOnly})
}

// DirtyDecayMS binds the default dirty-page decay time for new arenas, in
// milliseconds; -1 disables decay.
func DirtyDecayMS(ch *ctl.Channel) (*ctl.Int64Knob, error) {
	return ctl.NewInt64(ch, ctl.Def{Key: "arenas.dirty_decay_ms", Access: ctl.ReadWrite})
}

// MuzzyDecayMS binds the default muzzy-page decay time for new arenas, in
// milliseconds; -1 disables decay.
func MuzzyDecayMS(ch *ctl.Channel) (*ctl.Int64Knob, error) {
	return ctl.NewInt64(ch, ctl.Def{Key: "arenas.muzzy_decay_ms", Access: ctl.ReadWrite})
}
