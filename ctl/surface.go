package ctl

// MIB is a resolved lookup handle: the native surface's numeric translation
// of a dotted key path ("Management Information Base", in the native
// interface's own terminology). Resolving a name once and reusing the MIB
// avoids per-call string parsing on the native side.
//
// A MIB is stable for the process lifetime. Treat it as immutable after
// resolution; it may be shared across goroutines.
type MIB []uint64

// Caps is the fixed capability descriptor of a control surface. It reflects
// how the native component was built; it never changes while the process
// runs, so the facade consults it once at accessor construction.
type Caps struct {
	// Exchange reports whether the surface supports combined atomic
	// read-modify-write in a single call. When false, Exchange operations
	// are not offered at all: emulating them with separate read and write
	// calls would not be atomic.
	Exchange bool

	// Stats reports whether statistics tracking is compiled in.
	Stats bool

	// Prof reports whether heap profiling is compiled in. The prof.*
	// catalog is only available when set.
	Prof bool

	// BackgroundThread reports whether the native component can run
	// internal background threads.
	BackgroundThread bool
}

// Surface is the raw native control surface: a hierarchical namespace of
// knobs addressed by dotted name or by resolved MIB.
//
// Implementations must be safe for concurrent calls. Both operations are
// synchronous, in-process, and must not block on I/O.
type Surface interface {
	// Caps returns the surface's fixed capability descriptor.
	Caps() Caps

	// NameToMIB translates a fully substituted dotted name into a resolved
	// handle. Returns ErrnoNoEnt for unknown names.
	NameToMIB(name string) (MIB, Errno)

	// ByMIB performs a raw control operation on a resolved handle:
	//
	//	old != nil, new == nil   read the value into old
	//	old == nil, new != nil   write the value from new
	//	old != nil, new != nil   atomically read old value, install new
	//	old == nil, new == nil   invoke (command knobs, no payload)
	//
	// On a successful read, n is the knob's actual value width (which may
	// differ from len(old); the caller detects shape mismatches by
	// comparing). Reads copy min(n, len(old)) bytes. For variable-width
	// string knobs, n is the length of the NUL-terminated value.
	ByMIB(mib MIB, old, new []byte) (n int, code Errno)
}
