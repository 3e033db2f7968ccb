package ctl_test

import (
	"errors"
	"testing"

	"github.com/jemkit/jemkit/ctl"
	"github.com/jemkit/jemkit/ctl/ctltest"
)

func TestVersion(t *testing.T) {
	_, ch := open(t, ctltest.WithVersion("5.3.0"))

	v, err := ctl.Version(ch)
	if err != nil {
		t.Fatal(err)
	}
	got, err := v.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got != "5.3.0" {
		t.Fatalf("version = %q", got)
	}
}

func TestBackgroundThreadControls(t *testing.T) {
	_, ch := open(t)

	bt, err := ctl.BackgroundThread(ch)
	if err != nil {
		t.Fatal(err)
	}
	if err := bt.Set(true); err != nil {
		t.Fatal(err)
	}
	on, err := bt.Get()
	if err != nil {
		t.Fatal(err)
	}
	if !on {
		t.Fatal("Set(true) did not stick")
	}

	max, err := ctl.MaxBackgroundThreads(ch)
	if err != nil {
		t.Fatal(err)
	}
	if err := max.Set(0); !errors.Is(err, ctl.ErrInvalidArgument) {
		t.Fatalf("Set(0): err = %v, want ErrInvalidArgument", err)
	}
	if err := max.Set(8); err != nil {
		t.Fatal(err)
	}
}

func TestBackgroundThreadGated(t *testing.T) {
	s := ctltest.New(ctltest.WithCaps(ctl.Caps{Exchange: true, Stats: true, Prof: true}))
	t.Cleanup(s.Close)
	ch := ctl.Open(s)

	if _, err := ctl.BackgroundThread(ch); !errors.Is(err, ctl.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if _, err := ctl.MaxBackgroundThreads(ch); !errors.Is(err, ctl.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}
