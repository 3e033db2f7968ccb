package format

import (
	"bytes"
	"testing"
)

func TestScalarRoundTrip(t *testing.T) {
	b := make([]byte, 8)

	PutU32(b, 0, 0xDEADBEEF)
	if got := ReadU32(b, 0); got != 0xDEADBEEF {
		t.Fatalf("ReadU32 = 0x%X, want 0xDEADBEEF", got)
	}

	PutU64(b, 0, 1<<40+7)
	if got := ReadU64(b, 0); got != 1<<40+7 {
		t.Fatalf("ReadU64 = %d, want %d", got, uint64(1<<40+7))
	}

	PutI64(b, 0, -1)
	if got := ReadI64(b, 0); got != -1 {
		t.Fatalf("ReadI64 = %d, want -1", got)
	}
}

func TestBool(t *testing.T) {
	b := make([]byte, 2)
	PutBool(b, 0, true)
	PutBool(b, 1, false)
	if b[0] != 1 || b[1] != 0 {
		t.Fatalf("PutBool wrote % X", b)
	}
	if !ReadBool(b, 0) || ReadBool(b, 1) {
		t.Fatal("ReadBool disagreed with PutBool")
	}
	// any non-zero byte is true, per C99 bool semantics
	b[1] = 0x80
	if !ReadBool(b, 1) {
		t.Fatal("ReadBool(0x80) = false, want true")
	}
}

func TestCString(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("5.3.0\x00"), "5.3.0"},
		{[]byte("5.3.0\x00junk"), "5.3.0"},
		{[]byte("no-nul"), "no-nul"},
		{[]byte("\x00"), ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := CString(tt.in); got != tt.want {
			t.Errorf("CString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPutDoesNotTouchNeighbors(t *testing.T) {
	b := bytes.Repeat([]byte{0xAA}, 12)
	PutU32(b, 4, 0)
	if b[3] != 0xAA || b[8] != 0xAA {
		t.Fatalf("PutU32 touched neighboring bytes: % X", b)
	}
}
