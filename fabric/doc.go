// Package fabric provides an in-memory device and netlist model implementing
// arch.Context, for tests, examples and prototyping of the router core.
//
// Overview:
//
//   - A Device is built programmatically: add wires, pips, bels, wire up bel
//     pins, place cells on bels, and declare nets between cell ports. The
//     result is a self-contained routing target with binding state, a
//     deterministic RNG stream, a binding checksum, and a deep consistency
//     check.
//   - Binding semantics follow the real-device convention the router relies
//     on: binding a pip also claims the pip's destination wire for the same
//     net, recording the pip as the wire's arrival edge; unbinding a wire
//     that was claimed through a pip releases that pip too.
//
// Determinism:
//
//   - All randomness (Rand, Shuffle, SortedShuffle) flows from one
//     SplitMix64-seeded math/rand stream fixed at construction. Identical
//     seeds and identical build sequences replay identically; Checksum
//     summarizes binding state for replay comparison.
//
// Typical construction:
//
//	dev := fabric.NewDevice(fabric.WithSeed(42))
//	s := dev.AddWire("S")
//	d := dev.AddWire("D")
//	dev.AddPip("S->D", s, d, 5)
//	lut := dev.AddBel("LUT0")
//	dev.SetBelPinWire(lut, "O", s)
//	cell := dev.AddCell("gate", "LUT", lut)
//	dev.AddNet("sig", dev.PortRef(cell, "O"), ...sinks)
//
// Misuse during construction or binding (binding an already-bound resource,
// unbinding a free one, dangling handles) panics: these are programming
// errors in the test or in the router, not runtime conditions. Check()
// returns an error instead, so invariant drift can be asserted in tests.
package fabric
