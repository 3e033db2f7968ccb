package ctl

import (
	"errors"

	"github.com/jemkit/jemkit/internal/format"
)

// Def declares a catalog entry: the key pattern plus everything about the
// knob that is fixed by the native surface's published contract. The shape
// is implied by the typed constructor used, so a width disagreement between
// catalog and native surface is caught on the first access rather than
// corrupting an interpretation.
type Def struct {
	// Key is the template pattern, with <i>-style slots for dynamic
	// indices.
	Key string

	// Access is the knob's declared direction.
	Access Access

	// Cached marks epoch-snapshotted statistics: reads return the value as
	// of the last epoch advance, not the live value. This is a documented
	// caller contract (see Epoch); Get does not advance automatically.
	Cached bool

	// Exchange marks the curated knobs for which the native surface
	// documents atomic read-modify-write. It is ignored (the operation is
	// simply not offered) when the surface lacks exchange capability.
	Exchange bool

	// Bounds optionally attaches per-slot index bounds, checked before any
	// native lookup is issued. Entries may be nil.
	Bounds []BoundFunc
}

// knob is the common core of every typed accessor: a bound key path, shape,
// and access mode over a channel. Accessors are constructed once and reused;
// they hold no state beyond the channel's shared MIB cache, so they are safe
// for concurrent use.
type knob struct {
	ch       *Channel
	t        *Template
	indices  []uint64
	name     string
	shape    Shape
	access   Access
	cached   bool
	exchange bool
}

func newKnob(ch *Channel, def Def, shape Shape, indices []uint64) (knob, error) {
	t, err := NewTemplate(def.Key)
	if err != nil {
		return knob{}, err
	}
	if len(indices) != t.Arity() || len(def.Bounds) > t.Arity() {
		return knob{}, localErr("resolve", def.Key, ErrInvalidArgument)
	}
	for slot, bound := range def.Bounds {
		if bound != nil {
			t.Bind(slot, bound)
		}
	}
	name, err := t.Name(indices...)
	if err != nil {
		return knob{}, err
	}
	return knob{
		ch:       ch,
		t:        t,
		indices:  indices,
		name:     name,
		shape:    shape,
		access:   def.Access,
		cached:   def.Cached,
		exchange: def.Exchange && ch.caps.Exchange,
	}, nil
}

// Key returns the fully substituted key path.
func (k *knob) Key() string { return k.name }

// Shape returns the declared value shape.
func (k *knob) Shape() Shape { return k.shape }

// Access returns the declared access mode.
func (k *knob) Access() Access { return k.access }

// Cached reports whether reads observe the epoch snapshot rather than live
// state. Callers polling a cached statistic advance the epoch first.
func (k *knob) Cached() bool { return k.cached }

// Exchangeable reports whether atomic read-modify-write is offered for this
// knob on this surface.
func (k *knob) Exchangeable() bool { return k.exchange }

// stale reports whether err is a native not-found on a previously resolved
// handle, the one condition that triggers a silent re-resolution.
func stale(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrnoNoEnt
}

// do resolves the path and runs fn against the handle. If a cached handle
// turns out stale it re-resolves exactly once and retries; every other
// failure propagates unchanged.
func (k *knob) do(fn func(MIB) error) error {
	mib, hit, err := k.t.resolve(k.ch, k.indices)
	if err != nil {
		return err
	}
	err = fn(mib)
	if err != nil && hit && stale(err) {
		mib, rerr := k.t.rebind(k.ch, k.indices)
		if rerr != nil {
			return rerr
		}
		return fn(mib)
	}
	return err
}

func (k *knob) getRaw(buf []byte) error {
	if !k.access.canRead() {
		return localErr("read", k.name, ErrAccessDenied)
	}
	return k.do(func(m MIB) error { return k.ch.Read(k.name, m, buf) })
}

func (k *knob) getVar(buf []byte) (int, error) {
	if !k.access.canRead() {
		return 0, localErr("read", k.name, ErrAccessDenied)
	}
	var n int
	err := k.do(func(m MIB) error {
		var err error
		n, err = k.ch.ReadVar(k.name, m, buf)
		return err
	})
	return n, err
}

func (k *knob) setRaw(buf []byte) error {
	if !k.access.canWrite() {
		return localErr("write", k.name, ErrAccessDenied)
	}
	return k.do(func(m MIB) error { return k.ch.Write(k.name, m, buf) })
}

func (k *knob) exchangeRaw(old, new []byte) error {
	if !k.exchange {
		return localErr("exchange", k.name, ErrUnsupported)
	}
	if k.access != ReadWrite {
		return localErr("exchange", k.name, ErrAccessDenied)
	}
	return k.do(func(m MIB) error { return k.ch.Exchange(k.name, m, old, new) })
}

// Uint64Knob is a typed accessor for unsigned 64-bit knobs (including the
// native size type).
type Uint64Knob struct{ knob }

// NewUint64 binds an unsigned 64-bit accessor. indices fill the pattern's
// slots, one each, fixed for the accessor's lifetime.
func NewUint64(ch *Channel, def Def, indices ...uint64) (*Uint64Knob, error) {
	k, err := newKnob(ch, def, ShapeU64, indices)
	if err != nil {
		return nil, err
	}
	return &Uint64Knob{k}, nil
}

// Get reads the current value.
func (k *Uint64Knob) Get() (uint64, error) {
	var buf [format.U64Size]byte
	if err := k.getRaw(buf[:]); err != nil {
		return 0, err
	}
	return format.ReadU64(buf[:], 0), nil
}

// Set writes v.
func (k *Uint64Knob) Set(v uint64) error {
	var buf [format.U64Size]byte
	format.PutU64(buf[:], 0, v)
	return k.setRaw(buf[:])
}

// Exchange atomically installs v and returns the previous value. Offered
// only for knobs declared exchange-capable on a surface that supports it.
func (k *Uint64Knob) Exchange(v uint64) (uint64, error) {
	var old, new [format.U64Size]byte
	format.PutU64(new[:], 0, v)
	if err := k.exchangeRaw(old[:], new[:]); err != nil {
		return 0, err
	}
	return format.ReadU64(old[:], 0), nil
}

// Uint32Knob is a typed accessor for unsigned 32-bit knobs. Widths never
// coerce: a 32-bit knob must be declared as one, or the first access fails
// with ErrSizeMismatch.
type Uint32Knob struct{ knob }

// NewUint32 binds an unsigned 32-bit accessor.
func NewUint32(ch *Channel, def Def, indices ...uint64) (*Uint32Knob, error) {
	k, err := newKnob(ch, def, ShapeU32, indices)
	if err != nil {
		return nil, err
	}
	return &Uint32Knob{k}, nil
}

// Get reads the current value.
func (k *Uint32Knob) Get() (uint32, error) {
	var buf [format.U32Size]byte
	if err := k.getRaw(buf[:]); err != nil {
		return 0, err
	}
	return format.ReadU32(buf[:], 0), nil
}

// Set writes v.
func (k *Uint32Knob) Set(v uint32) error {
	var buf [format.U32Size]byte
	format.PutU32(buf[:], 0, v)
	return k.setRaw(buf[:])
}

// Exchange atomically installs v and returns the previous value.
func (k *Uint32Knob) Exchange(v uint32) (uint32, error) {
	var old, new [format.U32Size]byte
	format.PutU32(new[:], 0, v)
	if err := k.exchangeRaw(old[:], new[:]); err != nil {
		return 0, err
	}
	return format.ReadU32(old[:], 0), nil
}

// Int64Knob is a typed accessor for signed 64-bit knobs (the native ssize
// type; decay-time knobs use -1 as a sentinel).
type Int64Knob struct{ knob }

// NewInt64 binds a signed 64-bit accessor.
func NewInt64(ch *Channel, def Def, indices ...uint64) (*Int64Knob, error) {
	k, err := newKnob(ch, def, ShapeI64, indices)
	if err != nil {
		return nil, err
	}
	return &Int64Knob{k}, nil
}

// Get reads the current value.
func (k *Int64Knob) Get() (int64, error) {
	var buf [format.I64Size]byte
	if err := k.getRaw(buf[:]); err != nil {
		return 0, err
	}
	return format.ReadI64(buf[:], 0), nil
}

// Set writes v.
func (k *Int64Knob) Set(v int64) error {
	var buf [format.I64Size]byte
	format.PutI64(buf[:], 0, v)
	return k.setRaw(buf[:])
}

// BoolKnob is a typed accessor for single-byte boolean knobs.
type BoolKnob struct{ knob }

// NewBool binds a boolean accessor.
func NewBool(ch *Channel, def Def, indices ...uint64) (*BoolKnob, error) {
	k, err := newKnob(ch, def, ShapeBool, indices)
	if err != nil {
		return nil, err
	}
	return &BoolKnob{k}, nil
}

// Get reads the current value.
func (k *BoolKnob) Get() (bool, error) {
	var buf [format.BoolSize]byte
	if err := k.getRaw(buf[:]); err != nil {
		return false, err
	}
	return format.ReadBool(buf[:], 0), nil
}

// Set writes v.
func (k *BoolKnob) Set(v bool) error {
	var buf [format.BoolSize]byte
	format.PutBool(buf[:], 0, v)
	return k.setRaw(buf[:])
}

// Exchange atomically installs v and returns the previous value.
func (k *BoolKnob) Exchange(v bool) (bool, error) {
	var old, new [format.BoolSize]byte
	format.PutBool(new[:], 0, v)
	if err := k.exchangeRaw(old[:], new[:]); err != nil {
		return false, err
	}
	return format.ReadBool(old[:], 0), nil
}

// stringReadBuf is the initial buffer for variable-width reads; values
// longer than this trigger a second, exactly sized read.
const stringReadBuf = 256

// StringKnob is a typed accessor for NUL-terminated string knobs. Strings
// are variable-width, so no Exchange is offered: the native combined
// operation cannot guarantee atomicity for them.
type StringKnob struct{ knob }

// NewString binds a string accessor.
func NewString(ch *Channel, def Def, indices ...uint64) (*StringKnob, error) {
	k, err := newKnob(ch, def, ShapeCString, indices)
	if err != nil {
		return nil, err
	}
	return &StringKnob{k}, nil
}

// Get reads the current value, without the terminating NUL.
func (k *StringKnob) Get() (string, error) {
	buf := make([]byte, stringReadBuf)
	n, err := k.getVar(buf)
	if err != nil {
		return "", err
	}
	if n > len(buf) {
		buf = make([]byte, n)
		if n, err = k.getVar(buf); err != nil {
			return "", err
		}
	}
	if n < len(buf) {
		buf = buf[:n]
	}
	return format.CString(buf), nil
}

// Set writes v, appending the terminating NUL the native side expects.
func (k *StringKnob) Set(v string) error {
	buf := make([]byte, len(v)+1)
	copy(buf, v)
	return k.setRaw(buf)
}

// CommandKnob is an accessor for valueless knobs that are invoked rather
// than read or written (epoch advance, cache flush, arena purge).
type CommandKnob struct{ knob }

// NewCommand binds a command accessor. The Access field of the definition is
// ignored; commands have no direction.
func NewCommand(ch *Channel, def Def, indices ...uint64) (*CommandKnob, error) {
	k, err := newKnob(ch, def, ShapeCommand, indices)
	if err != nil {
		return nil, err
	}
	return &CommandKnob{k}, nil
}

// Invoke triggers the command.
func (k *CommandKnob) Invoke() error {
	return k.do(func(m MIB) error { return k.ch.Invoke(k.name, m) })
}

// CompositeKnob is a typed accessor for fixed-layout multi-field records,
// such as the per-arena extent hook table. No Exchange is offered for
// composites.
type CompositeKnob struct {
	knob
	layout Layout
}

// NewComposite binds a composite accessor with its declared layout.
func NewComposite(ch *Channel, def Def, layout Layout, indices ...uint64) (*CompositeKnob, error) {
	if err := layout.validate(); err != nil {
		return nil, localErr("resolve", def.Key, ErrInvalidArgument)
	}
	k, err := newKnob(ch, def, ShapeComposite, indices)
	if err != nil {
		return nil, err
	}
	return &CompositeKnob{knob: k, layout: layout}, nil
}

// Layout returns the declared record layout.
func (k *CompositeKnob) Layout() Layout { return k.layout }

// Get reads the record. The returned Record owns its bytes; it remains
// valid after subsequent accesses.
func (k *CompositeKnob) Get() (Record, error) {
	buf := make([]byte, k.layout.Size)
	if err := k.getRaw(buf); err != nil {
		return Record{}, err
	}
	return Record{raw: buf, layout: k.layout}, nil
}
