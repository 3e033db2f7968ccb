// Package report aggregates the statistics catalog into point-in-time
// snapshots and renders them as text or JSON, the library-level counterpart
// of the native side's stats-print facility.
package report

import (
	"github.com/jemkit/jemkit/ctl"
	"github.com/jemkit/jemkit/ctl/arenas"
	"github.com/jemkit/jemkit/ctl/stats"
)

// Arena is the per-arena slice of a snapshot.
type Arena struct {
	Index          uint32 `json:"index"`
	SmallAllocated uint64 `json:"small_allocated"`
	LargeAllocated uint64 `json:"large_allocated"`
	Mapped         uint64 `json:"mapped"`
	Resident       uint64 `json:"resident"`
	PActive        uint64 `json:"pactive"`
	PDirty         uint64 `json:"pdirty"`
	PMuzzy         uint64 `json:"pmuzzy"`
	Threads        uint32 `json:"nthreads"`
}

// Snapshot is a consistent view of the global and per-arena statistics as
// of one epoch.
type Snapshot struct {
	Version   string  `json:"version"`
	Epoch     uint64  `json:"epoch"`
	Allocated uint64  `json:"allocated"`
	Active    uint64  `json:"active"`
	Metadata  uint64  `json:"metadata"`
	Resident  uint64  `json:"resident"`
	Mapped    uint64  `json:"mapped"`
	Retained  uint64  `json:"retained"`
	Arenas    []Arena `json:"arenas"`
}

// arenaKnobs holds the bound per-arena accessors for one index.
type arenaKnobs struct {
	small    *ctl.Uint64Knob
	large    *ctl.Uint64Knob
	mapped   *ctl.Uint64Knob
	resident *ctl.Uint64Knob
	pactive  *ctl.Uint64Knob
	pdirty   *ctl.Uint64Knob
	pmuzzy   *ctl.Uint64Knob
	nthreads *ctl.Uint32Knob
}

// Reporter binds the statistics catalog once and produces snapshots
// repeatedly; suitable for a polling loop. Not safe for concurrent use.
type Reporter struct {
	ch        *ctl.Channel
	epoch     *ctl.Epoch
	version   *ctl.StringKnob
	allocated *ctl.Uint64Knob
	active    *ctl.Uint64Knob
	metadata  *ctl.Uint64Knob
	resident  *ctl.Uint64Knob
	mapped    *ctl.Uint64Knob
	retained  *ctl.Uint64Knob
	narenas   *ctl.Uint32Knob

	arenas map[uint32]*arenaKnobs
}

// NewReporter binds the global statistics accessors.
func NewReporter(ch *ctl.Channel) (*Reporter, error) {
	r := &Reporter{ch: ch, arenas: map[uint32]*arenaKnobs{}}

	var err error
	if r.epoch, err = ctl.NewEpoch(ch); err != nil {
		return nil, err
	}
	if r.version, err = ctl.Version(ch); err != nil {
		return nil, err
	}
	binds := []struct {
		dst  **ctl.Uint64Knob
		bind func(*ctl.Channel) (*ctl.Uint64Knob, error)
	}{
		{&r.allocated, stats.Allocated},
		{&r.active, stats.Active},
		{&r.metadata, stats.Metadata},
		{&r.resident, stats.Resident},
		{&r.mapped, stats.Mapped},
		{&r.retained, stats.Retained},
	}
	for _, b := range binds {
		if *b.dst, err = b.bind(ch); err != nil {
			return nil, err
		}
	}
	if r.narenas, err = arenas.NArenas(ch); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reporter) arenaKnobs(i uint32) (*arenaKnobs, error) {
	if ak, ok := r.arenas[i]; ok {
		return ak, nil
	}
	ak := &arenaKnobs{}
	var err error
	if ak.small, err = stats.ArenaSmallAllocated(r.ch, i); err != nil {
		return nil, err
	}
	if ak.large, err = stats.ArenaLargeAllocated(r.ch, i); err != nil {
		return nil, err
	}
	if ak.mapped, err = stats.ArenaMapped(r.ch, i); err != nil {
		return nil, err
	}
	if ak.resident, err = stats.ArenaResident(r.ch, i); err != nil {
		return nil, err
	}
	if ak.pactive, err = stats.ArenaPActive(r.ch, i); err != nil {
		return nil, err
	}
	if ak.pdirty, err = stats.ArenaPDirty(r.ch, i); err != nil {
		return nil, err
	}
	if ak.pmuzzy, err = stats.ArenaPMuzzy(r.ch, i); err != nil {
		return nil, err
	}
	if ak.nthreads, err = stats.ArenaNThreads(r.ch, i); err != nil {
		return nil, err
	}
	r.arenas[i] = ak
	return ak, nil
}

// Collect advances the epoch and reads a fresh snapshot.
func (r *Reporter) Collect() (*Snapshot, error) {
	epoch, err := r.epoch.Advance()
	if err != nil {
		return nil, err
	}
	s := &Snapshot{Epoch: epoch}
	if s.Version, err = r.version.Get(); err != nil {
		return nil, err
	}
	reads := []struct {
		dst *uint64
		kn  *ctl.Uint64Knob
	}{
		{&s.Allocated, r.allocated},
		{&s.Active, r.active},
		{&s.Metadata, r.metadata},
		{&s.Resident, r.resident},
		{&s.Mapped, r.mapped},
		{&s.Retained, r.retained},
	}
	for _, rd := range reads {
		if *rd.dst, err = rd.kn.Get(); err != nil {
			return nil, err
		}
	}

	n, err := r.narenas.Get()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		ak, err := r.arenaKnobs(i)
		if err != nil {
			return nil, err
		}
		a := Arena{Index: i}
		if a.SmallAllocated, err = ak.small.Get(); err != nil {
			return nil, err
		}
		if a.LargeAllocated, err = ak.large.Get(); err != nil {
			return nil, err
		}
		if a.Mapped, err = ak.mapped.Get(); err != nil {
			return nil, err
		}
		if a.Resident, err = ak.resident.Get(); err != nil {
			return nil, err
		}
		if a.PActive, err = ak.pactive.Get(); err != nil {
			return nil, err
		}
		if a.PDirty, err = ak.pdirty.Get(); err != nil {
			return nil, err
		}
		if a.PMuzzy, err = ak.pmuzzy.Get(); err != nil {
			return nil, err
		}
		if a.Threads, err = ak.nthreads.Get(); err != nil {
			return nil, err
		}
		s.Arenas = append(s.Arenas, a)
	}
	return s, nil
}
