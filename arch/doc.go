// Package arch defines the seam between the router core and the device it
// routes on: opaque resource handles, the delay scalar, binding strengths,
// the netlist view, and the Context/MutateProxy interfaces the core consumes.
//
// Overview:
//
//   - The router never enumerates the device. It walks an implicit routing
//     graph one hop at a time through Context queries (PipsDownhill,
//     PipDstWire, ...), and mutates net-to-resource bindings only through a
//     MutateProxy handle.
//   - All entities are opaque integer handles with a zero sentinel. Equality,
//     hashing and sentinel checks dominate the router's hot paths, so handles
//     stay bare integers – no pointers, no interfaces, no allocation.
//   - All randomness (sink shuffles, search tiebreaks) flows from the single
//     RNG stream owned by the Context, which is what makes whole-invocation
//     replays reproducible from a seed.
//
// Key types:
//
//   - WireId, PipId, BelId – routing wire segments, programmable interconnect
//     points, and placed logic sites. Zero means "none".
//   - IdString – an interned name handle (nets, cells, ports). Zero is the
//     empty name.
//   - Delay – nonnegative scalar cost; compared with the device epsilon.
//   - Strength – binding-strength marker; the router binds with StrengthWeak
//     so a later rip-up may evict the binding.
//   - NetInfo / CellInfo / PortRef – the netlist view the router reads.
//   - Context / MutateProxy – the consumed device interfaces.
//
// Implementations:
//
//   - fabric.Device provides an in-memory reference implementation suitable
//     for tests, examples and prototyping.
//
// Thread safety:
//
//   - The router is single-threaded within one invocation; implementations
//     only need to be safe for serialized use through one handle at a time.
package arch
