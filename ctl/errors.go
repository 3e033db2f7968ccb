package ctl

import (
	"errors"
	"fmt"
)

// Errno is a native status code reported by the control surface. The values
// follow the errno numbering the native side uses; ErrnoOK (zero) means
// success.
type Errno int

// Native status codes the surface is known to report.
const (
	ErrnoOK    Errno = 0
	ErrnoPerm  Errno = 1  // operation not permitted for this knob
	ErrnoNoEnt Errno = 2  // knob name or handle unknown
	ErrnoAgain Errno = 11 // transient contention, retryable by the caller
	ErrnoNoMem Errno = 12 // the control operation itself ran out of memory
	ErrnoFault Errno = 14 // generic native failure
	ErrnoInval Errno = 22 // malformed name, index, or value
)

// Sentinel errors forming the error taxonomy. Every failure returned from
// this package wraps exactly one of these (or ErrNative for codes outside
// the known set), so callers classify with errors.Is.
var (
	// ErrNotFound indicates the key path is unknown to the native surface.
	// This is a catalog/version mismatch, not a transient condition.
	ErrNotFound = errors.New("ctl: knob not found")

	// ErrAccessDenied indicates the knob's access mode forbids the
	// operation. Raised locally before the native call when the accessor's
	// declared mode forbids it, or mapped from the native permission code.
	ErrAccessDenied = errors.New("ctl: access denied")

	// ErrSizeMismatch indicates the declared value shape disagrees with the
	// size the native surface reports for the key. This is a catalog bug.
	ErrSizeMismatch = errors.New("ctl: value size mismatch")

	// ErrInvalidArgument indicates a value or index outside the range the
	// native surface accepts.
	ErrInvalidArgument = errors.New("ctl: invalid argument")

	// ErrResourceExhausted indicates the native allocator reported
	// out-of-memory while servicing the control operation itself.
	ErrResourceExhausted = errors.New("ctl: resource exhausted")

	// ErrBusy indicates a transient native contention condition. Callers
	// may retry; this package never retries automatically.
	ErrBusy = errors.New("ctl: busy")

	// ErrUnsupported indicates the operation is not offered for this knob
	// or surface (for example exchange on a surface without combined
	// read-modify-write support).
	ErrUnsupported = errors.New("ctl: operation not supported")

	// ErrNative indicates a native status outside the known set. The code
	// is preserved on the wrapping Error for diagnostics.
	ErrNative = errors.New("ctl: native failure")
)

// Error is the structured error returned by all control operations. It
// records the operation, the fully substituted key, and the native status
// code when the failure originated on the native side (Code is ErrnoOK for
// failures raised locally, such as access-mode violations).
type Error struct {
	Op   string // "resolve", "read", "write", "invoke", "exchange"
	Key  string
	Code Errno
	Err  error // one of the sentinel errors above
}

// The sentinels already carry the "ctl:" prefix, so the message does not
// repeat it.
func (e *Error) Error() string {
	if e.Code != ErrnoOK {
		return fmt.Sprintf("%s %q: %v (native code %d)", e.Op, e.Key, e.Err, int(e.Code))
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// errnoErr maps a native status code onto its taxonomy sentinel.
func errnoErr(code Errno) error {
	switch code {
	case ErrnoNoEnt:
		return ErrNotFound
	case ErrnoPerm:
		return ErrAccessDenied
	case ErrnoInval:
		return ErrInvalidArgument
	case ErrnoNoMem:
		return ErrResourceExhausted
	case ErrnoAgain:
		return ErrBusy
	default:
		return ErrNative
	}
}

// nativeErr builds the structured error for a failed native call.
func nativeErr(op, key string, code Errno) error {
	return &Error{Op: op, Key: key, Code: code, Err: errnoErr(code)}
}

// localErr builds the structured error for a failure raised before any
// native call.
func localErr(op, key string, sentinel error) error {
	return &Error{Op: op, Key: key, Err: sentinel}
}
