package format

import "encoding/binary"

// Scalar codec for the native control surface.
//
// Control values cross the surface in host byte order: the native side hands
// back the in-memory representation of its counters, not a serialized wire
// form. All helpers therefore use binary.NativeEndian.
//
// Performance Note: Go's standard library implementation is already highly
// optimized by the compiler; binary.NativeEndian calls inline to plain loads
// and stores.

// Fixed widths of the scalar shapes, in bytes.
const (
	U32Size  = 4
	U64Size  = 8
	I64Size  = 8
	BoolSize = 1
)

// PutU32 writes a uint32 value to the buffer at the specified offset.
func PutU32(b []byte, off int, v uint32) {
	binary.NativeEndian.PutUint32(b[off:off+U32Size], v)
}

// PutU64 writes a uint64 value to the buffer at the specified offset.
func PutU64(b []byte, off int, v uint64) {
	binary.NativeEndian.PutUint64(b[off:off+U64Size], v)
}

// PutI64 writes an int64 value to the buffer at the specified offset.
func PutI64(b []byte, off int, v int64) {
	binary.NativeEndian.PutUint64(b[off:off+I64Size], uint64(v))
}

// PutBool writes a bool as a single byte (0 or 1) at the specified offset.
func PutBool(b []byte, off int, v bool) {
	if v {
		b[off] = 1
	} else {
		b[off] = 0
	}
}

// ReadU32 reads a uint32 value from the buffer at the specified offset.
func ReadU32(b []byte, off int) uint32 {
	return binary.NativeEndian.Uint32(b[off : off+U32Size])
}

// ReadU64 reads a uint64 value from the buffer at the specified offset.
func ReadU64(b []byte, off int) uint64 {
	return binary.NativeEndian.Uint64(b[off : off+U64Size])
}

// ReadI64 reads an int64 value from the buffer at the specified offset.
func ReadI64(b []byte, off int) int64 {
	return int64(binary.NativeEndian.Uint64(b[off : off+I64Size]))
}

// ReadBool reads a single byte as a bool. Any non-zero byte is true,
// matching the native side's C99 bool semantics.
func ReadBool(b []byte, off int) bool {
	return b[off] != 0
}

// CString interprets b as a NUL-terminated string and returns the portion
// before the first NUL. If no NUL is present the whole buffer is returned.
func CString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
