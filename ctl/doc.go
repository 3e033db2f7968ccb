// Package ctl provides typed, safe access to a native memory allocator's
// runtime control surface: a hierarchical namespace of readable, writable,
// and invocable "knobs" covering statistics, configuration, and operational
// commands.
//
// # Overview
//
// The raw surface is stringly typed and unsafely typed: values cross it as
// raw bytes, and the caller must know each key's exact layout. This package
// narrows that into a construction-time contract. Every knob is bound once
// as a typed accessor declaring its key path, value shape, and access mode;
// from then on Get, Set, and Exchange marshal correctly or fail with a
// structured error before any bytes are misread.
//
// # Key Types
//
//   - Surface: the raw native control surface (name lookup + byte-level ops)
//   - Channel: the four raw primitives with status-code translation
//   - Template: a key path with <i>-style index slots, resolved once per
//     channel and cached
//   - Uint64Knob, Uint32Knob, Int64Knob, BoolKnob, StringKnob, CommandKnob,
//     CompositeKnob: the typed accessors
//   - Epoch: the statistics-refresh controller
//
// # Handle Caching
//
// Translating a dotted name into its native handle costs a string parse on
// every call. The surface therefore supports resolving a name once into a
// MIB and operating by handle afterwards. Templates cache resolved MIBs in a
// sharded map shared by every accessor on the channel: repeated polling of
// the same statistic performs
// no string parsing after the first access. Cached handles are never
// invalidated proactively; if the native side reports a cached handle
// unknown, the template re-resolves exactly once before surfacing the error.
//
// # Epoch-Gated Statistics
//
// Many statistics are snapshotted by the native side and refreshed only when
// the epoch advances. Accessors for such knobs report Cached() == true;
// callers advance the epoch before reading them. See Epoch.
//
// # Errors
//
// All failures are structured (*Error) and wrap one sentinel of the package
// taxonomy (ErrNotFound, ErrAccessDenied, ErrSizeMismatch, and so on), so
// callers classify with errors.Is. Nothing is retried automatically and no
// failure aborts the process: a missing knob across native versions is an
// expected, recoverable condition.
//
// # Thread Safety
//
// Channels and accessors are safe for concurrent use. The library adds no
// locking beyond the MIB cache's own synchronization; the native surface is
// safe for concurrent calls across independent keys, and Exchange atomicity
// is exactly as strong as the native combined operation.
//
// # Related Packages
//
//   - github.com/jemkit/jemkit/ctl/stats, opt, arenas, arena, thread,
//     config, prof: the pre-declared knob catalog
//   - github.com/jemkit/jemkit/ctl/report: aggregated snapshots and
//     human-readable reports
//   - github.com/jemkit/jemkit/ctl/ctltest: an in-process simulated surface
//     for tests
package ctl
