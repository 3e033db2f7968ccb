// Package opt binds the opt.* section of the control namespace: the
// run-time options the native component was started with. All opt.* knobs
// are read-only; they record the configuration, they don't change it.
package opt

import "github.com/jemkit/jemkit/ctl"

// NArenas binds the configured maximum number of arenas.
func NArenas(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return ctl.NewUint64(ch, ctl.Def{Key: "opt.narenas", Access: ctl.ReadOnly})
}

// Dss binds the configured sbrk(2) allocation precedence.
func Dss(ch *ctl.Channel) (*ctl.StringKnob, error) {
	return ctl.NewString(ch, ctl.Def{Key: "opt.dss", Access: ctl.ReadOnly})
}

// TCache binds whether thread caches are enabled by default.
func TCache(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	return ctl.NewBool(ch, ctl.Def{Key: "opt.tcache", Access: ctl.ReadOnly})
}

// Zero binds whether allocated memory is zero-filled.
func Zero(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	return ctl.NewBool(ch, ctl.Def{Key: "opt.zero", Access: ctl.ReadOnly})
}

// Abort binds whether internal warnings abort the process.
func Abort(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	return ctl.NewBool(ch, ctl.Def{Key: "opt.abort", Access: ctl.ReadOnly})
}

// DirtyDecayMS binds the configured default dirty-page decay time.
func DirtyDecayMS(ch *ctl.Channel) (*ctl.Int64Knob, error) {
	return ctl.NewInt64(ch, ctl.Def{Key: "opt.dirty_decay_ms", Access: ctl.ReadOnly})
}

// MuzzyDecayMS binds the configured default muzzy-page decay time.
func MuzzyDecayMS(ch *ctl.Channel) (*ctl.Int64Knob, error) {
	return ctl.NewInt64(ch, ctl.Def{Key: "opt.muzzy_decay_ms", Access: ctl.ReadOnly})
}

// BackgroundThread binds whether background threads were enabled at start.
// Only available when the surface reports background-thread support.
func BackgroundThread(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	if !ch.Caps().BackgroundThread {
		return nil, &ctl.Error{Op: "resolve", Key: "opt.background_thread", Err: ctl.ErrUnsupported}
	}
	return ctl.NewBool(ch, ctl.Def{Key: "opt.background_thread", Access: ctl.ReadOnly})
}
