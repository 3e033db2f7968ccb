// Package arena binds the arena.<i>.* section of the control namespace:
// per-arena operational commands and settings.
package arena

import (
	"github.com/jemkit/jemkit/ctl"
	"github.com/jemkit/jemkit/ctl/arenas"
)

func def(ch *ctl.Channel, key string, access ctl.Access) ctl.Def {
	return ctl.Def{
		Key:    key,
		Access: access,
		Bounds: []ctl.BoundFunc{arenas.Bound(ch)},
	}
}

// Purge binds the command that discards the arena's unused dirty and muzzy
// pages immediately.
func Purge(ch *ctl.Channel, arena uint32) (*ctl.CommandKnob, error) {
	return ctl.NewCommand(ch, def(ch, "arena.<i>.purge", ctl.WriteOnly), uint64(arena))
}

// Decay binds the command that triggers decay-based purging for the arena.
func Decay(ch *ctl.Channel, arena uint32) (*ctl.CommandKnob, error) {
	return ctl.NewCommand(ch, def(ch, "arena.<i>.decay", ctl.WriteOnly), uint64(arena))
}

// Reset binds the command that discards all of the arena's live
// allocations. Accessing memory allocated from the arena afterwards is
// undefined; this exists for workloads that segregate disposable state into
// a dedicated arena.
func Reset(ch *ctl.Channel, arena uint32) (*ctl.CommandKnob, error) {
	return ctl.NewCommand(ch, def(ch, "arena.<i>.reset", ctl.WriteOnly), uint64(arena))
}

// Dss binds the arena's sbrk(2) precedence setting: "disabled", "primary",
// or "secondary".
func Dss(ch *ctl.Channel, arena uint32) (*ctl.StringKnob, error) {
	return ctl.NewString(ch, def(ch, "arena.<i>.dss", ctl.ReadWrite), uint64(arena))
}

// DirtyDecayMS binds the arena's dirty-page decay time in milliseconds; -1
// disables decay.
func DirtyDecayMS(ch *ctl.Channel, arena uint32) (*ctl.Int64Knob, error) {
	return ctl.NewInt64(ch, def(ch, "arena.<i>.dirty_decay_ms", ctl.ReadWrite), uint64(arena))
}

// MuzzyDecayMS binds the arena's muzzy-page decay time in milliseconds; -1
// disables decay.
func MuzzyDecayMS(ch *ctl.Channel, arena uint32) (*ctl.Int64Knob, error) {
	return ctl.NewInt64(ch, def(ch, "arena.<i>.muzzy_decay_ms", ctl.ReadWrite), uint64(arena))
}

// ExtentHooksLayout is the fixed layout of the arena extent hook table:
// nine function pointers, read as opaque words.
var ExtentHooksLayout = ctl.Layout{
	Size: 9 * ctl.PtrSize,
	Fields: []ctl.Field{
		{Name: "alloc", Kind: ctl.FieldPtr, Off: 0 * ctl.PtrSize},
		{Name: "dalloc", Kind: ctl.FieldPtr, Off: 1 * ctl.PtrSize},
		{Name: "destroy", Kind: ctl.FieldPtr, Off: 2 * ctl.PtrSize},
		{Name: "commit", Kind: ctl.FieldPtr, Off: 3 * ctl.PtrSize},
		{Name: "decommit", Kind: ctl.FieldPtr, Off: 4 * ctl.PtrSize},
		{Name: "purge_lazy", Kind: ctl.FieldPtr, Off: 5 * ctl.PtrSize},
		{Name: "purge_forced", Kind: ctl.FieldPtr, Off: 6 * ctl.PtrSize},
		{Name: "split", Kind: ctl.FieldPtr, Off: 7 * ctl.PtrSize},
		{Name: "merge", Kind: ctl.FieldPtr, Off: 8 * ctl.PtrSize},
	},
}

// ExtentHooks binds the arena's extent hook table. The words identify the
// installed hooks; they are never dereferenced from here.
func ExtentHooks(ch *ctl.Channel, arena uint32) (*ctl.CompositeKnob, error) {
	return ctl.NewComposite(ch, def(ch, "arena.<i>.extent_hooks", ctl.ReadOnly),
		ExtentHooksLayout, uint64(arena))
}
