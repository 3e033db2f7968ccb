// Package thread binds the thread.* section of the control namespace:
// calling-thread allocation counters and thread cache control.
//
// The counters are cumulative: thread.allocated is every byte the thread
// has ever allocated, not its live footprint.
package thread

import "github.com/jemkit/jemkit/ctl"

// Allocated binds the total bytes ever allocated by the calling thread.
func Allocated(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return ctl.NewUint64(ch, ctl.Def{Key: "thread.allocated", Access: ctl.ReadOnly})
}

// Deallocated binds the total bytes ever deallocated by the calling thread.
func Deallocated(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return ctl.NewUint64(ch, ctl.Def{Key: "thread.deallocated", Access: ctl.ReadOnly})
}

// Arena binds the index of the arena the calling thread allocates from.
func Arena(ch *ctl.Channel) (*ctl.Uint32Knob, error) {
	return ctl.NewUint32(ch, ctl.Def{Key: "thread.arena", Access: ctl.ReadWrite})
}

// TCacheEnabled binds the calling thread's cache enable flag. The native
// surface documents atomic read-modify-write for this knob, so Exchange is
// offered: flip the flag and learn the previous state in one call.
func TCacheEnabled(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	return ctl.NewBool(ch, ctl.Def{
		Key:      "thread.tcache.enabled",
		Access:   ctl.ReadWrite,
		Exchange: true,
	})
}

// TCacheFlush binds the command that flushes the calling thread's cache.
func TCacheFlush(ch *ctl.Channel) (*ctl.CommandKnob, error) {
	return ctl.NewCommand(ch, ctl.Def{Key: "thread.tcache.flush", Access: ctl.WriteOnly})
}
