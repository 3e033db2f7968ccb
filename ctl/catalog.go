package ctl

// Top-of-namespace knobs. The section catalogs (stats, opt, arenas, ...)
// live in their own packages; only keys without a dotted prefix are bound
// here.

// Version binds the native component's version string.
func Version(ch *Channel) (*StringKnob, error) {
	return NewString(ch, Def{Key: "version", Access: ReadOnly})
}

// BackgroundThread binds the background-thread enable flag. Only available
// when the surface reports background-thread support.
func BackgroundThread(ch *Channel) (*BoolKnob, error) {
	if !ch.Caps().BackgroundThread {
		return nil, localErr("resolve", "background_thread", ErrUnsupported)
	}
	return NewBool(ch, Def{Key: "background_thread", Access: ReadWrite})
}

// MaxBackgroundThreads binds the cap on internal background threads. Only
// available when the surface reports background-thread support.
func MaxBackgroundThreads(ch *Channel) (*Uint64Knob, error) {
	if !ch.Caps().BackgroundThread {
		return nil, localErr("resolve", "max_background_threads", ErrUnsupported)
	}
	return NewUint64(ch, Def{Key: "max_background_threads", Access: ReadWrite})
}
