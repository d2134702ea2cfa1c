package fabric

import (
	"sort"

	"github.com/katalvlaran/pnroute/arch"
)

// EstimateDelay returns the installed estimator's bound, or zero (always
// admissible) when none was installed.
func (d *Device) EstimateDelay(src, dst arch.WireId) arch.Delay {
	if d.estimate != nil {
		return d.estimate(src, dst)
	}

	return 0
}

// PipsDownhill enumerates the pips whose source wire is w.
func (d *Device) PipsDownhill(w arch.WireId) []arch.PipId { return d.wires[w-1].downhill }

// PipSrcWire returns p's source wire.
func (d *Device) PipSrcWire(p arch.PipId) arch.WireId { return d.pips[p-1].src }

// PipDstWire returns p's destination wire.
func (d *Device) PipDstWire(p arch.PipId) arch.WireId { return d.pips[p-1].dst }

// PipDelay returns p's delay characteristics.
func (d *Device) PipDelay(p arch.PipId) arch.DelayInfo { return d.pips[p-1].delay }

// DelayEpsilon is the near-equality slack for cost comparisons.
func (d *Device) DelayEpsilon() arch.Delay { return d.epsilon }

// RipupDelayPenalty is the nominal penalty unit for contested resources.
func (d *Device) RipupDelayPenalty() arch.Delay { return d.ripupPenalty }

// WireBelPin resolves (bel, pin) to the attached wire, or the none sentinel.
func (d *Device) WireBelPin(b arch.BelId, pin arch.PortPin) arch.WireId {
	if b.None() {
		return 0
	}

	return d.bels[b-1].pins[pin]
}

// PortPinFromId maps an interned port name to its bel pin identifier.
// Fabric pins share the device name space, so the mapping is the identity.
func (d *Device) PortPinFromId(port arch.IdString) arch.PortPin { return arch.PortPin(port) }

// Nets returns the netlist view.
func (d *Device) Nets() map[arch.IdString]*arch.NetInfo { return d.nets }

// WireName returns w's name, or "" for the none sentinel.
func (d *Device) WireName(w arch.WireId) string {
	if w.None() {
		return ""
	}

	return d.names[d.wires[w-1].name]
}

// BelName returns b's name, or "" for the none sentinel.
func (d *Device) BelName(b arch.BelId) string {
	if b.None() {
		return ""
	}

	return d.names[d.bels[b-1].name]
}

// NetName resolves an interned name handle back to its string.
func (d *Device) NetName(s arch.IdString) string { return d.names[s] }

// DelayNS converts a delay to nanoseconds. Fabric delays are already in ns.
func (d *Device) DelayNS(delay arch.Delay) float64 { return delay }

// Rand returns the next nonnegative value of the device RNG stream.
func (d *Device) Rand() int { return int(d.rng.Int63() >> 32) }

// Shuffle permutes n elements via swap using the device RNG stream.
func (d *Device) Shuffle(n int, swap func(i, j int)) {
	if n > 1 {
		d.rng.Shuffle(n, swap)
	}
}

// SortedShuffle sorts ids by their interned names and then shuffles, so the
// outcome depends only on the RNG state, never on map iteration order.
func (d *Device) SortedShuffle(ids []arch.IdString) {
	sort.Slice(ids, func(i, j int) bool { return d.names[ids[i]] < d.names[ids[j]] })
	d.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}

// Debug reports whether per-route debug dumps are enabled.
func (d *Device) Debug() bool { return d.debug }

// Verbose reports whether per-iteration progress output is enabled.
func (d *Device) Verbose() bool { return d.verbose }

// RWProxy acquires the mutable binding handle. The fabric serializes all
// mutation through the device itself.
func (d *Device) RWProxy() arch.MutateProxy { return d }
