package arena_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jemkit/jemkit/ctl"
	"github.com/jemkit/jemkit/ctl/arena"
	"github.com/jemkit/jemkit/ctl/ctltest"
	"github.com/jemkit/jemkit/ctl/stats"
)

func open(t *testing.T, opts ...ctltest.Option) (*ctltest.Surface, *ctl.Channel) {
	t.Helper()
	s := ctltest.New(opts...)
	t.Cleanup(s.Close)
	return s, ctl.Open(s)
}

func advance(t *testing.T, ch *ctl.Channel) {
	t.Helper()
	epoch, err := ctl.NewEpoch(ch)
	require.NoError(t, err)
	_, err = epoch.Advance()
	require.NoError(t, err)
}

func TestDecayThenPurge(t *testing.T) {
	s, ch := open(t, ctltest.WithArenas(1))

	// freeing leaves dirty pages behind
	h := s.Malloc(1 << 16)
	require.NotZero(t, h)
	s.Free(h)
	advance(t, ch)

	pdirty, err := stats.ArenaPDirty(ch, 0)
	require.NoError(t, err)
	pmuzzy, err := stats.ArenaPMuzzy(ch, 0)
	require.NoError(t, err)

	dirty, err := pdirty.Get()
	require.NoError(t, err)
	require.NotZero(t, dirty)

	// decay demotes dirty pages to muzzy
	decay, err := arena.Decay(ch, 0)
	require.NoError(t, err)
	require.NoError(t, decay.Invoke())
	advance(t, ch)

	v, err := pdirty.Get()
	require.NoError(t, err)
	require.Zero(t, v)
	v, err = pmuzzy.Get()
	require.NoError(t, err)
	require.Equal(t, dirty, v)

	// purge discards them; the address space is retained
	purge, err := arena.Purge(ch, 0)
	require.NoError(t, err)
	require.NoError(t, purge.Invoke())
	advance(t, ch)

	v, err = pmuzzy.Get()
	require.NoError(t, err)
	require.Zero(t, v)

	retained, err := stats.Retained(ch)
	require.NoError(t, err)
	r, err := retained.Get()
	require.NoError(t, err)
	require.NotZero(t, r)
}

func TestReset(t *testing.T) {
	s, ch := open(t, ctltest.WithArenas(1))

	h := s.Malloc(4096)
	require.NotZero(t, h)
	advance(t, ch)

	small, err := stats.ArenaSmallAllocated(ch, 0)
	require.NoError(t, err)
	v, err := small.Get()
	require.NoError(t, err)
	require.NotZero(t, v)

	reset, err := arena.Reset(ch, 0)
	require.NoError(t, err)
	require.NoError(t, reset.Invoke())
	advance(t, ch)

	v, err = small.Get()
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestDss(t *testing.T) {
	_, ch := open(t)

	dss, err := arena.Dss(ch, 0)
	require.NoError(t, err)

	v, err := dss.Get()
	require.NoError(t, err)
	require.Equal(t, "secondary", v)

	require.NoError(t, dss.Set("disabled"))
	v, err = dss.Get()
	require.NoError(t, err)
	require.Equal(t, "disabled", v)

	err = dss.Set("bogus")
	require.ErrorIs(t, err, ctl.ErrInvalidArgument)
}

func TestPerArenaDecaySettings(t *testing.T) {
	_, ch := open(t)

	dirty, err := arena.DirtyDecayMS(ch, 1)
	require.NoError(t, err)
	require.NoError(t, dirty.Set(0))
	v, err := dirty.Get()
	require.NoError(t, err)
	require.Zero(t, v)

	require.ErrorIs(t, dirty.Set(-2), ctl.ErrInvalidArgument)

	muzzy, err := arena.MuzzyDecayMS(ch, 1)
	require.NoError(t, err)
	require.NoError(t, muzzy.Set(-1))
}

func TestExtentHooks(t *testing.T) {
	_, ch := open(t)

	hooks, err := arena.ExtentHooks(ch, 0)
	require.NoError(t, err)
	rec, err := hooks.Get()
	require.NoError(t, err)

	seen := map[uintptr]bool{}
	for _, f := range arena.ExtentHooksLayout.Fields {
		p, ok := rec.Ptr(f.Name)
		require.True(t, ok, f.Name)
		require.NotZero(t, p, f.Name)
		require.False(t, seen[p], "%s repeats another hook word", f.Name)
		seen[p] = true
	}

	// the table differs between arenas
	other, err := arena.ExtentHooks(ch, 1)
	require.NoError(t, err)
	rec1, err := other.Get()
	require.NoError(t, err)
	p0, _ := rec.Ptr("alloc")
	p1, _ := rec1.Ptr("alloc")
	require.NotEqual(t, p0, p1)
}

func TestOutOfRangeArena(t *testing.T) {
	s, ch := open(t, ctltest.WithArenas(2))

	purge, err := arena.Purge(ch, 7)
	require.NoError(t, err)
	require.ErrorIs(t, purge.Invoke(), ctl.ErrInvalidArgument)
	require.Zero(t, s.Lookups("arena.7.purge"))
}
