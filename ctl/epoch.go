package ctl

// Epoch controls when the native side refreshes its cached derived
// statistics. Most stats.* knobs are snapshotted: reads return the value as
// of the last epoch advance. Callers polling statistics advance the epoch
// first:
//
//	epoch, _ := ctl.NewEpoch(ch)
//	allocated, _ := stats.Allocated(ch)
//	for {
//		epoch.Advance()
//		n, _ := allocated.Get()
//		// ...
//	}
//
// The controller does not enforce this: the cost of refreshing on every read
// is exactly what the native design avoids, so staleness stays a visible,
// documented contract rather than a hidden Get side effect.
type Epoch struct {
	k *Uint64Knob
}

// NewEpoch binds the epoch knob.
func NewEpoch(ch *Channel) (*Epoch, error) {
	k, err := NewUint64(ch, Def{Key: "epoch", Access: ReadWrite, Exchange: true})
	if err != nil {
		return nil, err
	}
	return &Epoch{k: k}, nil
}

// Advance refreshes the statistic caches and returns the new epoch counter.
// The native knob is a combined read/write: the value read back in the same
// call is the post-advance counter, so successive advances observe a
// monotonically non-decreasing sequence.
//
// On a surface without exchange capability the advance and the read-back are
// two separate calls, and the returned counter may include advances from
// other goroutines.
func (e *Epoch) Advance() (uint64, error) {
	if e.k.Exchangeable() {
		return e.k.Exchange(1)
	}
	if err := e.k.Set(1); err != nil {
		return 0, err
	}
	return e.k.Get()
}

// Current returns the epoch counter without advancing it.
func (e *Epoch) Current() (uint64, error) {
	return e.k.Get()
}
