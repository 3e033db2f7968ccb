package ctl

import "github.com/jemkit/jemkit/internal/format"

// Shape identifies the concrete byte layout of a knob's value. The set is
// closed: every catalog entry declares exactly one shape at construction,
// and the channel enforces the declared width before bytes are interpreted.
type Shape uint8

const (
	// ShapeU32 is an unsigned 32-bit scalar.
	ShapeU32 Shape = iota
	// ShapeU64 is an unsigned 64-bit scalar (covers the native size type).
	ShapeU64
	// ShapeI64 is a signed 64-bit scalar (covers the native ssize type,
	// used by knobs with -1 sentinels such as decay times).
	ShapeI64
	// ShapeBool is a single-byte boolean.
	ShapeBool
	// ShapeCString is a variable-width NUL-terminated string.
	ShapeCString
	// ShapeComposite is a fixed-layout multi-field record.
	ShapeComposite
	// ShapeCommand has no value; the knob is invoked, not read or written.
	ShapeCommand
)

// Width returns the fixed byte width of the shape, or 0 for variable-width
// and valueless shapes.
func (s Shape) Width() int {
	switch s {
	case ShapeU32:
		return format.U32Size
	case ShapeU64:
		return format.U64Size
	case ShapeI64:
		return format.I64Size
	case ShapeBool:
		return format.BoolSize
	default:
		return 0
	}
}

func (s Shape) String() string {
	switch s {
	case ShapeU32:
		return "u32"
	case ShapeU64:
		return "u64"
	case ShapeI64:
		return "i64"
	case ShapeBool:
		return "bool"
	case ShapeCString:
		return "cstring"
	case ShapeComposite:
		return "composite"
	case ShapeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Access is a knob's declared direction. Mode violations are rejected
// locally, before any native call.
type Access uint8

const (
	// ReadOnly knobs support Get only.
	ReadOnly Access = iota
	// WriteOnly knobs support Set only.
	WriteOnly
	// ReadWrite knobs support both, and Exchange where declared.
	ReadWrite
)

func (a Access) canRead() bool  { return a == ReadOnly || a == ReadWrite }
func (a Access) canWrite() bool { return a == WriteOnly || a == ReadWrite }

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "ro"
	case WriteOnly:
		return "wo"
	case ReadWrite:
		return "rw"
	default:
		return "unknown"
	}
}
