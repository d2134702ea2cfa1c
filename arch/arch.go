package arch

// PortRef names one endpoint of a net: a cell together with the port on it.
type PortRef struct {
	Cell *CellInfo
	Port IdString
}

// CellInfo is the slice of a placed cell the router needs: its identity, the
// bel it sits on, and the logical-port → physical-pin aliasing map.
type CellInfo struct {
	Name IdString
	Type IdString
	Bel  BelId

	// Pins maps a logical port name to the physical pin name on the bel.
	// Ports absent from the map resolve to themselves.
	Pins map[IdString]IdString
}

// WireBinding records how a bound wire is reached within its net: via Pip, or
// directly (Pip is the none sentinel) for the net's source wire.
type WireBinding struct {
	Pip      PipId
	Strength Strength
}

// NetInfo is the netlist view of one logical net: one driver, one or more
// users (sinks), and the currently bound routing resources.
type NetInfo struct {
	Name   IdString
	Driver PortRef
	Users  []PortRef

	// Wires holds the net's current resource bindings, keyed by wire.
	// An unrouted net has an empty map.
	Wires map[WireId]WireBinding
}

// Context is the read side of the device/netlist proxy. It exposes the
// implicit routing graph, the netlist, naming for diagnostics, and the single
// RNG stream all router randomness draws from.
//
// Implementations must keep every query consistent for the duration of one
// router invocation; the router never caches availability.
type Context interface {
	// EstimateDelay returns an admissible lower bound on the minimum arrival
	// delay from src to dst. Overestimates degrade route quality.
	EstimateDelay(src, dst WireId) Delay

	// PipsDownhill enumerates the pips whose source wire is w.
	PipsDownhill(w WireId) []PipId

	// PipSrcWire and PipDstWire return a pip's endpoint wires.
	PipSrcWire(p PipId) WireId
	PipDstWire(p PipId) WireId

	// PipDelay returns the delay characteristics of p.
	PipDelay(p PipId) DelayInfo

	// DelayEpsilon is the slack used when comparing near-equal path costs.
	DelayEpsilon() Delay

	// RipupDelayPenalty is the device's nominal penalty unit for contested
	// resources; the rip-up loop escalates in multiples of it.
	RipupDelayPenalty() Delay

	// WireBelPin resolves a (bel, pin) pair to the attached wire, or the
	// none sentinel when the pin has no wire.
	WireBelPin(b BelId, pin PortPin) WireId

	// PortPinFromId maps an interned port name to the bel pin identifier.
	PortPinFromId(port IdString) PortPin

	// Nets returns the netlist view. The router mutates bindings only
	// through the MutateProxy, never through this map directly.
	Nets() map[IdString]*NetInfo

	// Name lookups, used for diagnostics only.
	WireName(w WireId) string
	BelName(b BelId) string
	NetName(s IdString) string
	DelayNS(d Delay) float64

	// Rand returns the next nonnegative value of the context RNG stream.
	Rand() int

	// Shuffle permutes n elements via swap using the context RNG stream.
	Shuffle(n int, swap func(i, j int))

	// SortedShuffle sorts ids by name and then shuffles them, so the result
	// depends only on the RNG state, never on map iteration order.
	SortedShuffle(ids []IdString)

	// Checksum summarizes the current binding state for replay comparison.
	Checksum() uint32

	// Check runs an optional deep consistency check over the binding state.
	Check() error

	// Debug and Verbose gate per-route and per-iteration diagnostics.
	Debug() bool
	Verbose() bool

	// RWProxy acquires the mutable binding handle. The router acquires one
	// handle per net routing and releases it on return.
	RWProxy() MutateProxy
}

// MutateProxy is the write side of the proxy: the only way the router touches
// binding state. Availability and conflict queries live here too, because
// their answers change under the router's own mutations.
type MutateProxy interface {
	// CheckWireAvail and CheckPipAvail report whether a resource can be
	// bound by the current net without evicting anything.
	CheckWireAvail(w WireId) bool
	CheckPipAvail(p PipId) bool

	// ConflictingWireNet and ConflictingPipNet return the net whose binding
	// makes the resource unavailable, or the empty sentinel when there is
	// none (a partially-bound structural resource).
	ConflictingWireNet(w WireId) IdString
	ConflictingPipNet(p PipId) IdString

	// BindWire binds w directly to net. Binding an already-bound resource
	// is a proxy-reported fault, not a silent overwrite.
	BindWire(w WireId, net IdString, strength Strength)

	// UnbindWire releases a direct wire binding.
	UnbindWire(w WireId)

	// BindPip binds p to net and claims p's destination wire with it,
	// recording p as the wire's arrival edge.
	BindPip(p PipId, net IdString, strength Strength)

	// UnbindPip releases p and the destination-wire claim made by BindPip.
	UnbindPip(p PipId)
}
