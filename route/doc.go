// Package route implements a negotiated-congestion signal router for placed
// netlists: the rip-up-and-reroute loop, the per-net best-first path search,
// and the congestion scoreboard that negotiates chronically contested
// resources away from their offenders.
//
// Overview:
//
//   - All(ctx) routes every unrouted net in the netlist exposed by ctx,
//     assigning each sink a connected driver→sink path of wires and pips such
//     that no resource ends up claimed by more than one net.
//   - Each outer iteration runs two passes: Pass A routes with rip-up
//     disabled (conflicting resources are simply unavailable); nets that
//     fail move to Pass B, which routes with rip-up enabled – contested
//     resources may be taken, their previous owners are unbound, ripped up,
//     and re-queued for the next iteration.
//   - A scoreboard accumulates per-resource and per-(net,resource) conflict
//     history. The path search prices contested resources by that history
//     times a ripup penalty that escalates at iterations 8, 16, 32, 64 and
//     128, so oscillating nets eventually find the contested spot too
//     expensive and route around it.
//
// The path search:
//
//   - Best-first (A*-like) over the implicit device graph: frontier entries
//     are ordered by accumulated delay plus an admissible remaining estimate,
//     ties broken by a randomized tag drawn from the context RNG so that
//     equal-cost alternatives diversify across rip-up iterations.
//   - Lazy decrease-key: relaxations push fresh heap entries; a popped entry
//     whose delay exceeds the visited map's record for its wire is stale and
//     is skipped.
//   - Bounded quality trade: after the destination is first reached, the
//     search continues for 50% additional edge examinations in case a
//     cheaper path appears, then stops.
//
// Entry points:
//
//	func All(ctx arch.Context, opts ...Option) error
//	func ActualDelay(ctx arch.Context, src, dst arch.WireId) (arch.Delay, bool)
//
// Errors (sentinel):
//
//   - ErrNoBel            – a driver or sink cell is not mapped to a bel.
//   - ErrNoPinWire        – a resolved bel pin has no attached wire.
//   - ErrUnroutable       – a net failed to route even in rip-up mode.
//   - ErrIterationLimit   – the outer loop hit its iteration cap.
//   - ErrBadMaxIterations – WithMaxIterations was given a non-positive value.
//
// Soft failures (a sink unreachable with rip-up disabled) are not errors;
// they feed the rip-up pipeline. Logical impossibilities – a conflict
// observed with rip-up disabled, a net conflicting with itself, a negative
// search cost – panic, as they indicate a proxy or core bug.
//
// Determinism:
//
//   - Net processing order, sink order and search tiebreaks all draw from
//     the single RNG stream owned by the context. Identical seeds and
//     identical device state yield identical bindings and checksum.
//
// Complexity:
//
//   - One search is O(E log E) in examined edges E, like any lazy-decrease-key
//     best-first search; the visit budget caps total work at 1.5× the edges
//     examined before discovery.
//   - The outer loop is bounded by MaxIterations (default 200) and by
//     convergence of the nets queue.
package route
