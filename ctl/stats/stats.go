// Package stats binds the stats.* section of the control namespace.
//
// Every knob here is an epoch-snapshotted statistic: reads observe the value
// as of the last epoch advance (Cached() reports true on each accessor). A
// monitoring loop advances the epoch once per polling interval, then reads
// whichever statistics it needs. See ctl.Epoch.
package stats

import "github.com/jemkit/jemkit/ctl"

func global(ch *ctl.Channel, key string) (*ctl.Uint64Knob, error) {
	return ctl.NewUint64(ch, ctl.Def{Key: key, Access: ctl.ReadOnly, Cached: true})
}

// Allocated binds the total bytes allocated by the application.
func Allocated(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return global(ch, "stats.allocated")
}

// Active binds the total bytes in active pages. A multiple of the page
// size, and at least the allocated total.
func Active(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return global(ch, "stats.active")
}

// Metadata binds the bytes dedicated to allocator metadata.
func Metadata(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return global(ch, "stats.metadata")
}

// Resident binds the bytes in physically resident data pages mapped by the
// allocator: metadata, active allocations, and unused dirty pages.
func Resident(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return global(ch, "stats.resident")
}

// Mapped binds the bytes in active extents mapped by the allocator.
func Mapped(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return global(ch, "stats.mapped")
}

// Retained binds the bytes of virtual memory retained after being purged,
// returnable to the OS.
func Retained(ch *ctl.Channel) (*ctl.Uint64Knob, error) {
	return global(ch, "stats.retained")
}
