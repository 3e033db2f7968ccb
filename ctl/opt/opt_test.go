package opt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jemkit/jemkit/ctl"
	"github.com/jemkit/jemkit/ctl/ctltest"
	"github.com/jemkit/jemkit/ctl/opt"
)

func TestOptionsReadable(t *testing.T) {
	s := ctltest.New(ctltest.WithArenas(8))
	t.Cleanup(s.Close)
	ch := ctl.Open(s)

	n, err := opt.NArenas(ch)
	require.NoError(t, err)
	v, err := n.Get()
	require.NoError(t, err)
	require.Equal(t, uint64(8), v)

	dss, err := opt.Dss(ch)
	require.NoError(t, err)
	d, err := dss.Get()
	require.NoError(t, err)
	require.Equal(t, "secondary", d)

	tcache, err := opt.TCache(ch)
	require.NoError(t, err)
	b, err := tcache.Get()
	require.NoError(t, err)
	require.True(t, b)

	dirty, err := opt.DirtyDecayMS(ch)
	require.NoError(t, err)
	ms, err := dirty.Get()
	require.NoError(t, err)
	require.Equal(t, int64(10000), ms)

	for name, bind := range map[string]func(*ctl.Channel) (*ctl.BoolKnob, error){
		"zero":  opt.Zero,
		"abort": opt.Abort,
	} {
		k, err := bind(ch)
		require.NoError(t, err, name)
		_, err = k.Get()
		require.NoError(t, err, name)
	}
}

func TestOptionsAreReadOnly(t *testing.T) {
	s := ctltest.New()
	t.Cleanup(s.Close)
	ch := ctl.Open(s)

	n, err := opt.NArenas(ch)
	require.NoError(t, err)
	require.ErrorIs(t, n.Set(1), ctl.ErrAccessDenied)
}

func TestBackgroundThreadGated(t *testing.T) {
	s := ctltest.New(ctltest.WithCaps(ctl.Caps{Exchange: true, Stats: true, Prof: true}))
	t.Cleanup(s.Close)
	ch := ctl.Open(s)

	_, err := opt.BackgroundThread(ch)
	require.ErrorIs(t, err, ctl.ErrUnsupported)

	full := ctltest.New()
	t.Cleanup(full.Close)
	k, err := opt.BackgroundThread(ctl.Open(full))
	require.NoError(t, err)
	_, err = k.Get()
	require.NoError(t, err)
}
