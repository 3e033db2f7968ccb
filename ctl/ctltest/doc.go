// Package ctltest provides an in-process simulation of the native allocator
// control surface for use in tests.
//
// The simulated Surface registers the full default knob catalog with the
// native contract's widths, directions, and errno reporting, and backs the
// statistics with a real bump-allocating heap over mapped slabs. Tests drive
// it through two side doors:
//
//   - Malloc/Free simulate application allocations, observable through the
//     stats knobs after an epoch advance
//   - call counters (Lookups, Ops) support spy assertions, e.g. that a mode
//     violation never reached the surface, or that resolving the same path
//     from many goroutines performed a bounded number of native lookups
//
// Remap moves a knob to a fresh handle so the encoder's stale-handle
// re-resolution path can be exercised deterministically.
package ctltest
