package ctl

import (
	"errors"
	"math/bits"

	"github.com/jemkit/jemkit/internal/format"
)

// FieldKind identifies the scalar layout of one composite record field.
type FieldKind uint8

const (
	// FieldU32 is an unsigned 32-bit field.
	FieldU32 FieldKind = iota
	// FieldU64 is an unsigned 64-bit field.
	FieldU64
	// FieldI64 is a signed 64-bit field.
	FieldI64
	// FieldBool is a single-byte boolean field.
	FieldBool
	// FieldPtr is a pointer-width field, read as an opaque word. Used for
	// records carrying native function pointers (extent hooks); the value
	// is only meaningful as an identity, never dereferenced.
	FieldPtr
)

// PtrSize is the pointer width of the host, in bytes.
const PtrSize = bits.UintSize / 8

func (k FieldKind) width() int {
	switch k {
	case FieldU32:
		return format.U32Size
	case FieldU64:
		return format.U64Size
	case FieldI64:
		return format.I64Size
	case FieldBool:
		return format.BoolSize
	case FieldPtr:
		return PtrSize
	default:
		return 0
	}
}

// Field is one named field of a composite record layout.
type Field struct {
	Name string
	Kind FieldKind
	Off  int
}

// Layout describes a composite record: its total byte size and the offset
// and kind of each field. Like every shape declaration, a layout must match
// the native definition exactly; Size is enforced against the native width
// on every read.
type Layout struct {
	Fields []Field
	Size   int
}

func (l Layout) validate() error {
	if l.Size <= 0 {
		return errors.New("ctl: composite layout has no size")
	}
	for _, f := range l.Fields {
		if f.Name == "" || f.Off < 0 || f.Off+f.Kind.width() > l.Size {
			return errors.New("ctl: composite field out of bounds")
		}
	}
	return nil
}

func (l Layout) field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Record is a decoded composite value: a raw byte image plus its layout.
// Field accessors are zero-copy views over the image. The second return
// value reports whether the named field exists with a compatible kind.
type Record struct {
	raw    []byte
	layout Layout
}

// Raw returns the record's byte image.
func (r Record) Raw() []byte { return r.raw }

// Uint returns an unsigned field (FieldU32, FieldU64, or FieldPtr, widened
// explicitly to uint64).
func (r Record) Uint(name string) (uint64, bool) {
	f, ok := r.layout.field(name)
	if !ok {
		return 0, false
	}
	switch f.Kind {
	case FieldU32:
		return uint64(format.ReadU32(r.raw, f.Off)), true
	case FieldU64:
		return format.ReadU64(r.raw, f.Off), true
	case FieldPtr:
		if PtrSize == format.U64Size {
			return format.ReadU64(r.raw, f.Off), true
		}
		return uint64(format.ReadU32(r.raw, f.Off)), true
	default:
		return 0, false
	}
}

// Int returns a signed 64-bit field.
func (r Record) Int(name string) (int64, bool) {
	f, ok := r.layout.field(name)
	if !ok || f.Kind != FieldI64 {
		return 0, false
	}
	return format.ReadI64(r.raw, f.Off), true
}

// Bool returns a boolean field.
func (r Record) Bool(name string) (bool, bool) {
	f, ok := r.layout.field(name)
	if !ok || f.Kind != FieldBool {
		return false, false
	}
	return format.ReadBool(r.raw, f.Off), true
}

// Ptr returns a pointer-width field as an opaque word.
func (r Record) Ptr(name string) (uintptr, bool) {
	f, ok := r.layout.field(name)
	if !ok || f.Kind != FieldPtr {
		return 0, false
	}
	if PtrSize == format.U64Size {
		return uintptr(format.ReadU64(r.raw, f.Off)), true
	}
	return uintptr(format.ReadU32(r.raw, f.Off)), true
}
