package ctl_test

import (
	"errors"
	"testing"

	"github.com/jemkit/jemkit/ctl"
	"github.com/jemkit/jemkit/ctl/ctltest"
)

func open(t *testing.T, opts ...ctltest.Option) (*ctltest.Surface, *ctl.Channel) {
	t.Helper()
	s := ctltest.New(opts...)
	t.Cleanup(s.Close)
	return s, ctl.Open(s)
}

func TestStringKnobGet(t *testing.T) {
	_, ch := open(t, ctltest.WithVersion("5.3.0-test"))

	v, err := ctl.NewString(ch, ctl.Def{Key: "version", Access: ctl.ReadOnly})
	if err != nil {
		t.Fatal(err)
	}
	got, err := v.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "5.3.0-test" {
		t.Fatalf("version = %q", got)
	}
}

func TestBoolKnobRoundTrip(t *testing.T) {
	_, ch := open(t)

	k, err := ctl.NewBool(ch, ctl.Def{Key: "thread.tcache.enabled", Access: ctl.ReadWrite, Exchange: true})
	if err != nil {
		t.Fatal(err)
	}

	on, err := k.Get()
	if err != nil {
		t.Fatal(err)
	}
	if !on {
		t.Fatal("tcache starts enabled")
	}
	if err := k.Set(false); err != nil {
		t.Fatal(err)
	}
	if on, _ = k.Get(); on {
		t.Fatal("Set(false) did not stick")
	}

	// exchange returns the pre-swap value
	prev, err := k.Exchange(true)
	if err != nil {
		t.Fatal(err)
	}
	if prev {
		t.Fatal("Exchange(true) previous = true, want false")
	}
	if on, _ = k.Get(); !on {
		t.Fatal("Exchange(true) did not install the new value")
	}
}

func TestInt64KnobRoundTrip(t *testing.T) {
	_, ch := open(t)

	k, err := ctl.NewInt64(ch, ctl.Def{Key: "arenas.dirty_decay_ms", Access: ctl.ReadWrite})
	if err != nil {
		t.Fatal(err)
	}
	if err := k.Set(-1); err != nil {
		t.Fatal(err)
	}
	v, err := k.Get()
	if err != nil {
		t.Fatal(err)
	}
	if v != -1 {
		t.Fatalf("decay = %d, want -1", v)
	}

	// -2 is outside the knob's domain; the surface rejects it
	if err := k.Set(-2); !errors.Is(err, ctl.ErrInvalidArgument) {
		t.Fatalf("Set(-2): err = %v, want ErrInvalidArgument", err)
	}
}

func TestCommandKnob(t *testing.T) {
	s, ch := open(t)

	k, err := ctl.NewCommand(ch, ctl.Def{Key: "thread.tcache.flush"})
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if err := k.Invoke(); err != nil {
			t.Fatal(err)
		}
	}
	if n := s.TCacheFlushes(); n != 3 {
		t.Fatalf("flush count = %d, want 3", n)
	}
}

func TestCompositeKnob(t *testing.T) {
	_, ch := open(t)

	layout := ctl.Layout{
		Size: 9 * ctl.PtrSize,
		Fields: []ctl.Field{
			{Name: "alloc", Kind: ctl.FieldPtr, Off: 0},
			{Name: "dalloc", Kind: ctl.FieldPtr, Off: ctl.PtrSize},
			{Name: "merge", Kind: ctl.FieldPtr, Off: 8 * ctl.PtrSize},
		},
	}
	k, err := ctl.NewComposite(ch, ctl.Def{Key: "arena.<i>.extent_hooks", Access: ctl.ReadOnly}, layout, 1)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := k.Get()
	if err != nil {
		t.Fatal(err)
	}
	alloc, ok := rec.Ptr("alloc")
	if !ok || alloc == 0 {
		t.Fatalf("Ptr(alloc) = 0x%X, %v", alloc, ok)
	}
	merge, ok := rec.Ptr("merge")
	if !ok || merge == alloc {
		t.Fatalf("Ptr(merge) = 0x%X, %v", merge, ok)
	}
}

func TestKnobAccessGating(t *testing.T) {
	s, ch := open(t)

	// a read-only declaration rejects writes locally, before the surface
	ro, err := ctl.NewUint64(ch, ctl.Def{Key: "stats.allocated", Access: ctl.ReadOnly, Cached: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := ro.Set(1); !errors.Is(err, ctl.ErrAccessDenied) {
		t.Fatalf("Set on read-only: err = %v, want ErrAccessDenied", err)
	}
	if n := s.Ops("stats.allocated"); n != 0 {
		t.Fatalf("native ops = %d, want 0 (gating is local)", n)
	}

	// a write-only declaration rejects reads the same way
	wo, err := ctl.NewString(ch, ctl.Def{Key: "prof.dump", Access: ctl.WriteOnly})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wo.Get(); !errors.Is(err, ctl.ErrAccessDenied) {
		t.Fatalf("Get on write-only: err = %v, want ErrAccessDenied", err)
	}
	if n := s.Ops("prof.dump"); n != 0 {
		t.Fatalf("native ops = %d, want 0 (gating is local)", n)
	}

	// an over-broad declaration still fails, at the surface this time
	lying, err := ctl.NewUint64(ch, ctl.Def{Key: "stats.allocated", Access: ctl.ReadWrite})
	if err != nil {
		t.Fatal(err)
	}
	if err := lying.Set(1); !errors.Is(err, ctl.ErrAccessDenied) {
		t.Fatalf("Set on natively read-only: err = %v, want ErrAccessDenied", err)
	}
}

func TestKnobShapeMismatch(t *testing.T) {
	_, ch := open(t)

	// opt.narenas is a 64-bit knob; a 32-bit declaration must not
	// silently read half of it
	k, err := ctl.NewUint32(ch, ctl.Def{Key: "opt.narenas", Access: ctl.ReadOnly})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.Get(); !errors.Is(err, ctl.ErrSizeMismatch) {
		t.Fatalf("32-bit read of 64-bit knob: err = %v, want ErrSizeMismatch", err)
	}
}

func TestKnobExchangeRequiresCapability(t *testing.T) {
	s := ctltest.New(ctltest.WithCaps(ctl.Caps{Stats: true, Prof: true, BackgroundThread: true}))
	t.Cleanup(s.Close)
	ch := ctl.Open(s)

	k, err := ctl.NewBool(ch, ctl.Def{Key: "thread.tcache.enabled", Access: ctl.ReadWrite, Exchange: true})
	if err != nil {
		t.Fatal(err)
	}
	if k.Exchangeable() {
		t.Fatal("Exchangeable() = true on a surface without exchange")
	}
	if _, err := k.Exchange(false); !errors.Is(err, ctl.ErrUnsupported) {
		t.Fatalf("Exchange: err = %v, want ErrUnsupported", err)
	}

	// plain reads and writes still work
	if err := k.Set(false); err != nil {
		t.Fatal(err)
	}
	if on, err := k.Get(); err != nil || on {
		t.Fatalf("Get = %v, %v", on, err)
	}
}

func TestKnobExchangeNotDeclared(t *testing.T) {
	_, ch := open(t)

	k, err := ctl.NewInt64(ch, ctl.Def{Key: "arenas.dirty_decay_ms", Access: ctl.ReadWrite})
	if err != nil {
		t.Fatal(err)
	}
	if k.Exchangeable() {
		t.Fatal("Exchangeable() = true without declaration")
	}
}

func TestKnobStaleHandleReResolves(t *testing.T) {
	s, ch := open(t)

	k, err := ctl.NewBool(ch, ctl.Def{Key: "thread.tcache.enabled", Access: ctl.ReadWrite})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.Get(); err != nil {
		t.Fatal(err)
	}
	if n := s.Lookups("thread.tcache.enabled"); n != 1 {
		t.Fatalf("lookups after first access = %d, want 1", n)
	}

	if !s.Remap("thread.tcache.enabled") {
		t.Fatal("Remap failed")
	}

	// the cached handle now points at a hole; the accessor re-resolves
	// once and the access still succeeds
	if _, err := k.Get(); err != nil {
		t.Fatalf("Get after remap: %v", err)
	}
	if n := s.Lookups("thread.tcache.enabled"); n != 2 {
		t.Fatalf("lookups after remap = %d, want 2", n)
	}

	// subsequent accesses use the refreshed handle
	if _, err := k.Get(); err != nil {
		t.Fatal(err)
	}
	if n := s.Lookups("thread.tcache.enabled"); n != 2 {
		t.Fatalf("lookups after refreshed access = %d, want 2", n)
	}
}

func TestKnobUnknownKey(t *testing.T) {
	_, ch := open(t)

	k, err := ctl.NewUint64(ch, ctl.Def{Key: "no.such.key", Access: ctl.ReadOnly})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.Get(); !errors.Is(err, ctl.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestKnobIndexArity(t *testing.T) {
	_, ch := open(t)

	if _, err := ctl.NewInt64(ch, ctl.Def{Key: "arena.<i>.dirty_decay_ms", Access: ctl.ReadWrite}); err == nil {
		t.Fatal("missing index accepted")
	}
	if _, err := ctl.NewInt64(ch, ctl.Def{Key: "arenas.dirty_decay_ms", Access: ctl.ReadWrite}, 0); err == nil {
		t.Fatal("extra index accepted")
	}
}
