package ctl

// Channel is the raw control channel: the four primitive operations against
// a Surface, with exact-size enforcement and native status translation. It
// performs no caching of values or handles; handle caching is the template
// layer's policy (see Template), and statistic staleness is the epoch
// contract (see Epoch).
//
// A Channel is safe for concurrent use.
type Channel struct {
	s     Surface
	caps  Caps
	cache *mibCache
}

// Open wraps a native control surface.
func Open(s Surface) *Channel {
	return &Channel{s: s, caps: s.Caps(), cache: newMIBCache()}
}

// Caps returns the surface's fixed capability descriptor.
func (c *Channel) Caps() Caps { return c.caps }

// Read fills buf with the current raw value of the knob. The buffer must be
// sized exactly to the knob's native width; a disagreement is reported as
// ErrSizeMismatch. key is the substituted name, carried for diagnostics only.
func (c *Channel) Read(key string, mib MIB, buf []byte) error {
	n, code := c.s.ByMIB(mib, buf, nil)
	if code != ErrnoOK {
		return nativeErr("read", key, code)
	}
	if n != len(buf) {
		return localErr("read", key, ErrSizeMismatch)
	}
	return nil
}

// ReadVar fills buf with as much of a variable-width value as fits and
// returns the value's full native width. Used for string knobs, the one
// shape whose width is not fixed at construction.
func (c *Channel) ReadVar(key string, mib MIB, buf []byte) (int, error) {
	n, code := c.s.ByMIB(mib, buf, nil)
	if code != ErrnoOK {
		return 0, nativeErr("read", key, code)
	}
	return n, nil
}

// Write writes raw bytes to a writable knob. Size mismatches surface as the
// native side reports them (typically ErrInvalidArgument).
func (c *Channel) Write(key string, mib MIB, buf []byte) error {
	if _, code := c.s.ByMIB(mib, nil, buf); code != ErrnoOK {
		return nativeErr("write", key, code)
	}
	return nil
}

// Invoke triggers a command knob with no payload.
func (c *Channel) Invoke(key string, mib MIB) error {
	if _, code := c.s.ByMIB(mib, nil, nil); code != ErrnoOK {
		return nativeErr("invoke", key, code)
	}
	return nil
}

// Exchange atomically reads the knob's previous value into old while
// installing new, in a single native call. Only legal when the surface
// reports exchange capability; there is no read+write emulation because it
// would not be atomic.
func (c *Channel) Exchange(key string, mib MIB, old, new []byte) error {
	if !c.caps.Exchange {
		return localErr("exchange", key, ErrUnsupported)
	}
	n, code := c.s.ByMIB(mib, old, new)
	if code != ErrnoOK {
		return nativeErr("exchange", key, code)
	}
	if n != len(old) {
		return localErr("exchange", key, ErrSizeMismatch)
	}
	return nil
}
