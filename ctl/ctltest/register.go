package ctltest

import (
	"github.com/jemkit/jemkit/ctl"
	"github.com/jemkit/jemkit/internal/format"
)

// register installs the default knob catalog. Sections gated by an absent
// capability are left unregistered so their names fail to resolve, matching
// a native build without that feature.
func (s *Surface) register() {
	arenaLimit := func(s *Surface) uint64 { return uint64(len(s.arenas)) }
	snapLimit := func(s *Surface) uint64 { return uint64(len(s.snapArenas)) }

	// epoch: combined read/write. Writing any value advances the counter
	// and refreshes the statistics snapshot; the value read back in the
	// same call is the post-advance counter.
	s.registerKnob(&knobDef{
		pattern: "epoch", width: format.U64Size, canRead: true, canWrite: true,
		read: func(s *Surface, _ []uint64) []byte { return u64Bytes(s.epoch) },
		write: func(s *Surface, _ []uint64, _ []byte) ctl.Errno {
			s.epoch++
			s.snapshot()
			return ctl.ErrnoOK
		},
		exchange: func(s *Surface, _ []uint64, _ []byte) ([]byte, ctl.Errno) {
			s.epoch++
			s.snapshot()
			return u64Bytes(s.epoch), ctl.ErrnoOK
		},
	}, nil)

	s.registerKnob(&knobDef{
		pattern: "version", width: widthVar, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return strBytes(s.version) },
	}, nil)

	if s.caps.BackgroundThread {
		s.registerKnob(&knobDef{
			pattern: "background_thread", width: format.BoolSize, canRead: true, canWrite: true,
			read: func(s *Surface, _ []uint64) []byte { return boolBytes(s.backgroundThread) },
			write: func(s *Surface, _ []uint64, b []byte) ctl.Errno {
				s.backgroundThread = format.ReadBool(b, 0)
				return ctl.ErrnoOK
			},
		}, nil)
		s.registerKnob(&knobDef{
			pattern: "max_background_threads", width: format.U64Size, canRead: true, canWrite: true,
			read: func(s *Surface, _ []uint64) []byte { return u64Bytes(s.maxBackgroundThreads) },
			write: func(s *Surface, _ []uint64, b []byte) ctl.Errno {
				v := format.ReadU64(b, 0)
				if v == 0 {
					return ctl.ErrnoInval
				}
				s.maxBackgroundThreads = v
				return ctl.ErrnoOK
			},
		}, nil)
	}

	// config.*: compile-time configuration, all read-only.
	s.registerKnob(&knobDef{
		pattern: "config.malloc_conf", width: widthVar, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return strBytes(s.mallocConf) },
	}, nil)
	for name, val := range map[string]func(*Surface) bool{
		"config.stats": func(s *Surface) bool { return s.caps.Stats },
		"config.prof":  func(s *Surface) bool { return s.caps.Prof },
		"config.debug": func(*Surface) bool { return false },
		"config.fill":  func(*Surface) bool { return true },
	} {
		read := val
		s.registerKnob(&knobDef{
			pattern: name, width: format.BoolSize, canRead: true,
			read: func(s *Surface, _ []uint64) []byte { return boolBytes(read(s)) },
		}, nil)
	}

	// opt.*: the run-time options the surface was started with, read-only.
	s.registerKnob(&knobDef{
		pattern: "opt.narenas", width: format.U64Size, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return u64Bytes(uint64(len(s.arenas))) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "opt.dss", width: widthVar, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return strBytes("secondary") },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "opt.tcache", width: format.BoolSize, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return boolBytes(true) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "opt.zero", width: format.BoolSize, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return boolBytes(false) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "opt.abort", width: format.BoolSize, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return boolBytes(false) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "opt.dirty_decay_ms", width: format.I64Size, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return i64Bytes(s.dirtyDecayMS) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "opt.muzzy_decay_ms", width: format.I64Size, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return i64Bytes(s.muzzyDecayMS) },
	}, nil)
	if s.caps.BackgroundThread {
		s.registerKnob(&knobDef{
			pattern: "opt.background_thread", width: format.BoolSize, canRead: true,
			read: func(s *Surface, _ []uint64) []byte { return boolBytes(false) },
		}, nil)
	}

	// arenas.*: arena namespace metadata and defaults.
	s.registerKnob(&knobDef{
		pattern: "arenas.narenas", width: format.U32Size, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return u32Bytes(uint32(len(s.arenas))) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "arenas.quantum", width: format.U64Size, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return u64Bytes(quantum) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "arenas.page", width: format.U64Size, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return u64Bytes(pageSize) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "arenas.dirty_decay_ms", width: format.I64Size, canRead: true, canWrite: true,
		read: func(s *Surface, _ []uint64) []byte { return i64Bytes(s.dirtyDecayMS) },
		write: func(s *Surface, _ []uint64, b []byte) ctl.Errno {
			v := format.ReadI64(b, 0)
			if v < -1 {
				return ctl.ErrnoInval
			}
			s.dirtyDecayMS = v
			return ctl.ErrnoOK
		},
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "arenas.muzzy_decay_ms", width: format.I64Size, canRead: true, canWrite: true,
		read: func(s *Surface, _ []uint64) []byte { return i64Bytes(s.muzzyDecayMS) },
		write: func(s *Surface, _ []uint64, b []byte) ctl.Errno {
			v := format.ReadI64(b, 0)
			if v < -1 {
				return ctl.ErrnoInval
			}
			s.muzzyDecayMS = v
			return ctl.ErrnoOK
		},
	}, nil)

	// arena.<i>.*: per-arena operations.
	s.registerKnob(&knobDef{
		pattern: "arena.<i>.purge", width: 0,
		invoke: func(s *Surface, idx []uint64) ctl.Errno {
			s.arenas[idx[0]].purge()
			return ctl.ErrnoOK
		},
	}, arenaLimit)
	s.registerKnob(&knobDef{
		pattern: "arena.<i>.decay", width: 0,
		invoke: func(s *Surface, idx []uint64) ctl.Errno {
			s.arenas[idx[0]].decay()
			return ctl.ErrnoOK
		},
	}, arenaLimit)
	s.registerKnob(&knobDef{
		pattern: "arena.<i>.reset", width: 0,
		invoke: func(s *Surface, idx []uint64) ctl.Errno {
			s.arenas[idx[0]].reset()
			return ctl.ErrnoOK
		},
	}, arenaLimit)
	s.registerKnob(&knobDef{
		pattern: "arena.<i>.dss", width: widthVar, canRead: true, canWrite: true,
		read: func(s *Surface, idx []uint64) []byte { return strBytes(s.arenas[idx[0]].dss) },
		write: func(s *Surface, idx []uint64, b []byte) ctl.Errno {
			switch v := format.CString(b); v {
			case "disabled", "primary", "secondary":
				s.arenas[idx[0]].dss = v
				return ctl.ErrnoOK
			default:
				return ctl.ErrnoInval
			}
		},
	}, arenaLimit)
	s.registerKnob(&knobDef{
		pattern: "arena.<i>.dirty_decay_ms", width: format.I64Size, canRead: true, canWrite: true,
		read: func(s *Surface, idx []uint64) []byte { return i64Bytes(s.arenas[idx[0]].dirtyDecayMS) },
		write: func(s *Surface, idx []uint64, b []byte) ctl.Errno {
			v := format.ReadI64(b, 0)
			if v < -1 {
				return ctl.ErrnoInval
			}
			s.arenas[idx[0]].dirtyDecayMS = v
			return ctl.ErrnoOK
		},
	}, arenaLimit)
	s.registerKnob(&knobDef{
		pattern: "arena.<i>.muzzy_decay_ms", width: format.I64Size, canRead: true, canWrite: true,
		read: func(s *Surface, idx []uint64) []byte { return i64Bytes(s.arenas[idx[0]].muzzyDecayMS) },
		write: func(s *Surface, idx []uint64, b []byte) ctl.Errno {
			v := format.ReadI64(b, 0)
			if v < -1 {
				return ctl.ErrnoInval
			}
			s.arenas[idx[0]].muzzyDecayMS = v
			return ctl.ErrnoOK
		},
	}, arenaLimit)
	s.registerKnob(&knobDef{
		pattern: "arena.<i>.extent_hooks", width: extentHooksSize, canRead: true,
		read:    func(s *Surface, idx []uint64) []byte { return extentHooksBytes(idx[0]) },
	}, arenaLimit)

	// thread.*: calling-thread counters and cache control. The simulation
	// keeps one set of counters rather than per-goroutine state.
	s.registerKnob(&knobDef{
		pattern: "thread.allocated", width: format.U64Size, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return u64Bytes(s.threadAllocated) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "thread.deallocated", width: format.U64Size, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return u64Bytes(s.threadDeallocated) },
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "thread.arena", width: format.U32Size, canRead: true, canWrite: true,
		read: func(s *Surface, _ []uint64) []byte { return u32Bytes(s.threadArena) },
		write: func(s *Surface, _ []uint64, b []byte) ctl.Errno {
			v := format.ReadU32(b, 0)
			if uint64(v) >= uint64(len(s.arenas)) {
				return ctl.ErrnoInval
			}
			s.arenas[s.threadArena].nthreads--
			s.arenas[v].nthreads++
			s.threadArena = v
			return ctl.ErrnoOK
		},
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "thread.tcache.enabled", width: format.BoolSize, canRead: true, canWrite: true,
		read: func(s *Surface, _ []uint64) []byte { return boolBytes(s.tcacheEnabled) },
		write: func(s *Surface, _ []uint64, b []byte) ctl.Errno {
			s.tcacheEnabled = format.ReadBool(b, 0)
			return ctl.ErrnoOK
		},
	}, nil)
	s.registerKnob(&knobDef{
		pattern: "thread.tcache.flush", width: 0,
		invoke: func(s *Surface, _ []uint64) ctl.Errno {
			s.tcacheFlushes++
			return ctl.ErrnoOK
		},
	}, nil)

	if s.caps.Prof {
		s.registerKnob(&knobDef{
			pattern: "prof.active", width: format.BoolSize, canRead: true, canWrite: true,
			read: func(s *Surface, _ []uint64) []byte { return boolBytes(s.profActive) },
			write: func(s *Surface, _ []uint64, b []byte) ctl.Errno {
				s.profActive = format.ReadBool(b, 0)
				return ctl.ErrnoOK
			},
		}, nil)
		s.registerKnob(&knobDef{
			pattern: "prof.thread_active_init", width: format.BoolSize, canRead: true, canWrite: true,
			read: func(s *Surface, _ []uint64) []byte { return boolBytes(s.profThreadActiveInit) },
			write: func(s *Surface, _ []uint64, b []byte) ctl.Errno {
				s.profThreadActiveInit = format.ReadBool(b, 0)
				return ctl.ErrnoOK
			},
		}, nil)
		s.registerKnob(&knobDef{
			pattern: "prof.interval", width: format.U64Size, canRead: true,
			read: func(s *Surface, _ []uint64) []byte { return u64Bytes(s.profInterval) },
		}, nil)
		// prof.dump is write-only: writing a path triggers a dump there.
		s.registerKnob(&knobDef{
			pattern: "prof.dump", width: widthVar, canWrite: true,
			write: func(s *Surface, _ []uint64, b []byte) ctl.Errno {
				path := format.CString(b)
				if path == "" {
					return ctl.ErrnoInval
				}
				s.profDumps = append(s.profDumps, path)
				return ctl.ErrnoOK
			},
		}, nil)
		s.registerKnob(&knobDef{
			pattern: "prof.reset", width: 0,
			invoke: func(s *Surface, _ []uint64) ctl.Errno {
				s.profDumps = nil
				return ctl.ErrnoOK
			},
		}, nil)
	}

	if s.caps.Stats {
		s.registerGlobalStat("stats.allocated", func(g globalStats) uint64 { return g.allocated })
		s.registerGlobalStat("stats.active", func(g globalStats) uint64 { return g.active })
		s.registerGlobalStat("stats.metadata", func(g globalStats) uint64 { return g.metadata })
		s.registerGlobalStat("stats.resident", func(g globalStats) uint64 { return g.resident })
		s.registerGlobalStat("stats.mapped", func(g globalStats) uint64 { return g.mapped })
		s.registerGlobalStat("stats.retained", func(g globalStats) uint64 { return g.retained })

		s.registerArenaStat("stats.arenas.<i>.small.allocated", snapLimit,
			func(a arenaStats) uint64 { return a.smallAllocated })
		s.registerArenaStat("stats.arenas.<i>.large.allocated", snapLimit,
			func(a arenaStats) uint64 { return a.largeAllocated })
		s.registerArenaStat("stats.arenas.<i>.mapped", snapLimit,
			func(a arenaStats) uint64 { return a.mapped })
		s.registerArenaStat("stats.arenas.<i>.resident", snapLimit,
			func(a arenaStats) uint64 { return a.resident })
		s.registerArenaStat("stats.arenas.<i>.pactive", snapLimit,
			func(a arenaStats) uint64 { return a.pactive })
		s.registerArenaStat("stats.arenas.<i>.pdirty", snapLimit,
			func(a arenaStats) uint64 { return a.pdirty })
		s.registerArenaStat("stats.arenas.<i>.pmuzzy", snapLimit,
			func(a arenaStats) uint64 { return a.pmuzzy })
		s.registerKnob(&knobDef{
			pattern: "stats.arenas.<i>.nthreads", width: format.U32Size, canRead: true,
			read: func(s *Surface, idx []uint64) []byte { return u32Bytes(s.snapArenas[idx[0]].nthreads) },
		}, snapLimit)
	}
}

// registerGlobalStat installs an epoch-snapshotted global counter.
func (s *Surface) registerGlobalStat(pattern string, get func(globalStats) uint64) {
	s.registerKnob(&knobDef{
		pattern: pattern, width: format.U64Size, canRead: true,
		read: func(s *Surface, _ []uint64) []byte { return u64Bytes(get(s.snapGlobal)) },
	}, nil)
}

// registerArenaStat installs an epoch-snapshotted per-arena counter.
func (s *Surface) registerArenaStat(pattern string, limit func(*Surface) uint64, get func(arenaStats) uint64) {
	s.registerKnob(&knobDef{
		pattern: pattern, width: format.U64Size, canRead: true,
		read: func(s *Surface, idx []uint64) []byte { return u64Bytes(get(s.snapArenas[idx[0]])) },
	}, limit)
}

// extentHooksSize matches the native hook table: nine function pointers.
const extentHooksSize = 9 * ctl.PtrSize

// extentHooksBytes fabricates a stable fake hook table for an arena. The
// words are opaque identities, never dereferenced.
func extentHooksBytes(arena uint64) []byte {
	b := make([]byte, extentHooksSize)
	for i := range 9 {
		word := 0xec000000 + arena<<8 + uint64(i)
		if ctl.PtrSize == 8 {
			format.PutU64(b, i*ctl.PtrSize, word)
		} else {
			format.PutU32(b, i*ctl.PtrSize, uint32(word))
		}
	}
	return b
}
