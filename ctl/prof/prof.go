// Package prof binds the prof.* section of the control namespace: heap
// profiling control. The section only exists on surfaces built with
// profiling support; constructors fail with ErrUnsupported otherwise,
// before any native call.
package prof

import "github.com/jemkit/jemkit/ctl"

func gate(ch *ctl.Channel, key string) error {
	if !ch.Caps().Prof {
		return &ctl.Error{Op: "resolve", Key: key, Err: ctl.ErrUnsupported}
	}
	return nil
}

// Active binds the profiling activation flag. Exchange is offered: sampling
// can be toggled around a region of interest and restored to its previous
// state in one call each way.
func Active(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	if err := gate(ch, "prof.active"); err != nil {
		return nil, err
	}
	return ctl.NewBool(ch, ctl.Def{
		Key:      "prof.active",
		Access:   ctl.ReadWrite,
		Exchange: true,
	})
}

// ThreadActiveInit binds the initial per-thread sampling state for newly
// created threads.
func ThreadActiveInit(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	if err := gate(ch, "prof.thread_active_init"); err != nil {
		return nil, err
	}
	return ctl.NewBool(ch, ctl.Def{Key: "prof.thread_active_init", Access: ctl.ReadWrite})
}

// Interval binds the average interval in bytes between automatic dumps.
func Interval(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	if err := gate(ch, "prof.interval"); err != nil {
		return nil, err
	}
	return ctl.NewUint64(ch, ctl.Def{Key: "prof.interval", Access: ctl.ReadOnly})
}

// Dump binds the dump trigger: writing a filename dumps a profile there.
// The knob is write-only; reading it fails with ErrAccessDenied before any
// native call.
func Dump(ch *ctl.Channel) (*ctl.StringKnob, error) {
	if err := gate(ch, "prof.dump"); err != nil {
		return nil, err
	}
	return ctl.NewString(ch, ctl.Def{Key: "prof.dump", Access: ctl.WriteOnly})
}

// Reset binds the command that discards accumulated profile data.
func Reset(ch *ctl.Channel) (*ctl.CommandKnob, error) {
	if err := gate(ch, "prof.reset"); err != nil {
		return nil, err
	}
	return ctl.NewCommand(ch, ctl.Def{Key: "prof.reset", Access: ctl.WriteOnly})
}
