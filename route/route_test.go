// Black-box tests for route.All: end-to-end scenarios on synthetic fabric
// devices – conflicts, rip-up negotiation, spine reuse, placement errors,
// and determinism.
package route_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pnroute/arch"
	"github.com/katalvlaran/pnroute/fabric"
	"github.com/katalvlaran/pnroute/route"
)

// endpoint is a (name, wire) pair; addNet places each endpoint's cell on its
// own bel with the wire attached to the relevant pin.
type endpoint struct {
	name string
	wire arch.WireId
}

// addNet places one cell per endpoint and declares the net between them.
func addNet(dev *fabric.Device, name string, driver endpoint, sinks ...endpoint) {
	srcBel := dev.AddBel("bel_" + driver.name)
	dev.SetBelPinWire(srcBel, "O", driver.wire)
	srcCell := dev.AddCell(driver.name, "LUT", srcBel)

	refs := make([]arch.PortRef, 0, len(sinks))
	for _, sink := range sinks {
		dstBel := dev.AddBel("bel_" + sink.name)
		dev.SetBelPinWire(dstBel, "I", sink.wire)
		refs = append(refs, dev.PortRef(dev.AddCell(sink.name, "LUT", dstBel), "I"))
	}

	dev.AddNet(name, dev.PortRef(srcCell, "O"), refs...)
}

// requireConnected walks a routed net from every sink wire back through the
// bound arrival pips and asserts the walk ends on the driver wire.
func requireConnected(t *testing.T, dev *fabric.Device, net string, driverWire arch.WireId, sinkWires ...arch.WireId) {
	t.Helper()

	netInfo := dev.Nets()[dev.Id(net)]
	for _, sink := range sinkWires {
		cursor := sink
		for cursor != driverWire {
			binding, ok := netInfo.Wires[cursor]
			require.True(t, ok, "wire %s must be bound to net %s", dev.WireName(cursor), net)
			require.False(t, binding.Pip.None(), "only the driver wire is bound without a pip")
			cursor = dev.PipSrcWire(binding.Pip)
		}
	}
}

// TestAll_TrivialDirectPip: wires {S, D}, one pip S→D of delay 5, one net.
func TestAll_TrivialDirectPip(t *testing.T) {
	dev := fabric.NewDevice()
	s := dev.AddWire("S")
	d := dev.AddWire("D")
	dev.AddPip("S->D", s, d, 5)
	addNet(dev, "sig", endpoint{"drv", s}, endpoint{"snk", d})

	require.NoError(t, route.All(dev))

	netInfo := dev.Nets()[dev.Id("sig")]
	require.Len(t, netInfo.Wires, 2)
	requireConnected(t, dev, "sig", s, d)
	require.NoError(t, dev.Check())
}

// TestAll_TwoPathTieBreak: two equal-cost paths; exactly one is chosen, and
// across seeds both get chosen at least once.
func TestAll_TwoPathTieBreak(t *testing.T) {
	build := func(seed int64) (*fabric.Device, arch.WireId, arch.WireId) {
		dev := fabric.NewDevice(fabric.WithSeed(seed))
		s := dev.AddWire("S")
		a := dev.AddWire("A")
		b := dev.AddWire("B")
		d := dev.AddWire("D")
		dev.AddPip("S->A", s, a, 1)
		dev.AddPip("S->B", s, b, 1)
		dev.AddPip("A->D", a, d, 1)
		dev.AddPip("B->D", b, d, 1)
		addNet(dev, "sig", endpoint{"drv", s}, endpoint{"snk", d})

		return dev, a, b
	}

	chosen := make(map[arch.WireId]bool)

	for seed := int64(1); seed <= 32; seed++ {
		dev, a, b := build(seed)
		require.NoError(t, route.All(dev))

		netInfo := dev.Nets()[dev.Id("sig")]
		require.Len(t, netInfo.Wires, 3, "source, one middle wire, destination")

		_, viaA := netInfo.Wires[a]
		_, viaB := netInfo.Wires[b]
		require.NotEqual(t, viaA, viaB, "exactly one of the two paths must be chosen")
		if viaA {
			chosen[a] = true
		} else {
			chosen[b] = true
		}
	}

	require.Len(t, chosen, 2, "different seeds must be able to choose either path")
}

// TestAll_ConflictNegotiatedByRipup: two nets contend for the bottleneck
// wire M; one of them has a longer fallback. The rip-up negotiation must
// land both nets conflict-free.
//
//	n1:  S1 ──1──▶ M ──1──▶ D1       fallback  S1 ──5──▶ X ──5──▶ D1
//	n2:  S2 ──1──▶ M ──1──▶ D2       (no fallback)
func TestAll_ConflictNegotiatedByRipup(t *testing.T) {
	dev := fabric.NewDevice()
	s1 := dev.AddWire("S1")
	s2 := dev.AddWire("S2")
	m := dev.AddWire("M")
	x := dev.AddWire("X")
	d1 := dev.AddWire("D1")
	d2 := dev.AddWire("D2")
	dev.AddPip("S1->M", s1, m, 1)
	dev.AddPip("S2->M", s2, m, 1)
	dev.AddPip("M->D1", m, d1, 1)
	dev.AddPip("M->D2", m, d2, 1)
	dev.AddPip("S1->X", s1, x, 5)
	dev.AddPip("X->D1", x, d1, 5)
	addNet(dev, "n1", endpoint{"drv1", s1}, endpoint{"snk1", d1})
	addNet(dev, "n2", endpoint{"drv2", s2}, endpoint{"snk2", d2})

	require.NoError(t, route.All(dev))

	requireConnected(t, dev, "n1", s1, d1)
	requireConnected(t, dev, "n2", s2, d2)

	// Binding uniqueness on the bottleneck: M belongs to exactly one net.
	_, n1HasM := dev.Nets()[dev.Id("n1")].Wires[m]
	_, n2HasM := dev.Nets()[dev.Id("n2")].Wires[m]
	require.NotEqual(t, n1HasM, n2HasM)
	require.NoError(t, dev.Check())
}

// TestAll_HardUnroutable: a sink with no incoming pips fails even in rip-up
// mode and surfaces ErrUnroutable.
func TestAll_HardUnroutable(t *testing.T) {
	dev := fabric.NewDevice()
	s := dev.AddWire("S")
	d := dev.AddWire("D")
	addNet(dev, "sig", endpoint{"drv", s}, endpoint{"snk", d})

	err := route.All(dev)
	require.ErrorIs(t, err, route.ErrUnroutable)
	require.NoError(t, dev.Check())
}

// TestAll_OscillationHitsIterationCap: two nets whose only paths share the
// bottleneck M with no fallback rip each other up forever; the loop must
// abort at the cap. The cap of 10 also crosses the first penalty-escalation
// boundary at iteration 8.
func TestAll_OscillationHitsIterationCap(t *testing.T) {
	dev := fabric.NewDevice()
	s1 := dev.AddWire("S1")
	s2 := dev.AddWire("S2")
	m := dev.AddWire("M")
	d1 := dev.AddWire("D1")
	d2 := dev.AddWire("D2")
	dev.AddPip("S1->M", s1, m, 1)
	dev.AddPip("S2->M", s2, m, 1)
	dev.AddPip("M->D1", m, d1, 1)
	dev.AddPip("M->D2", m, d2, 1)
	addNet(dev, "n1", endpoint{"drv1", s1}, endpoint{"snk1", d1})
	addNet(dev, "n2", endpoint{"drv2", s2}, endpoint{"snk2", d2})

	err := route.All(dev, route.WithMaxIterations(10))
	require.ErrorIs(t, err, route.ErrIterationLimit)
	require.NoError(t, dev.Check())
}

// TestAll_MultiSinkSpineReuse: one driver, three sinks behind a shared spine
// wire W. The spine must be routed once and reused, never duplicated.
func TestAll_MultiSinkSpineReuse(t *testing.T) {
	dev := fabric.NewDevice()
	s := dev.AddWire("S")
	w := dev.AddWire("W")
	d1 := dev.AddWire("D1")
	d2 := dev.AddWire("D2")
	d3 := dev.AddWire("D3")
	dev.AddPip("S->W", s, w, 1)
	dev.AddPip("W->D1", w, d1, 1)
	dev.AddPip("W->D2", w, d2, 1)
	dev.AddPip("W->D3", w, d3, 1)
	addNet(dev, "fanout", endpoint{"drv", s},
		endpoint{"snk1", d1}, endpoint{"snk2", d2}, endpoint{"snk3", d3})

	require.NoError(t, route.All(dev))

	netInfo := dev.Nets()[dev.Id("fanout")]
	require.Len(t, netInfo.Wires, 5, "S, W and the three sinks – the spine is not duplicated")
	requireConnected(t, dev, "fanout", s, d1, d2, d3)
	require.NoError(t, dev.Check())
}

// TestAll_NoUnroutedNetsIsNoop: running All on an already-fully-routed
// netlist routes nothing and leaves the binding state untouched.
func TestAll_NoUnroutedNetsIsNoop(t *testing.T) {
	dev := fabric.NewDevice()
	s := dev.AddWire("S")
	d := dev.AddWire("D")
	dev.AddPip("S->D", s, d, 5)
	addNet(dev, "sig", endpoint{"drv", s}, endpoint{"snk", d})

	require.NoError(t, route.All(dev))
	before := dev.Checksum()

	require.NoError(t, route.All(dev))
	require.Equal(t, before, dev.Checksum())
}

// TestAll_PlacementErrors: unplaced cells and missing pin wires are hard
// errors with context.
func TestAll_PlacementErrors(t *testing.T) {
	t.Run("driver without bel", func(t *testing.T) {
		dev := fabric.NewDevice()
		s := dev.AddWire("S")
		d := dev.AddWire("D")
		dev.AddPip("S->D", s, d, 1)

		driver := dev.AddCell("drv", "LUT", 0) // unplaced
		dstBel := dev.AddBel("bel_snk")
		dev.SetBelPinWire(dstBel, "I", d)
		sink := dev.AddCell("snk", "LUT", dstBel)
		dev.AddNet("sig", dev.PortRef(driver, "O"), dev.PortRef(sink, "I"))

		require.ErrorIs(t, route.All(dev), route.ErrNoBel)
	})

	t.Run("sink pin without wire", func(t *testing.T) {
		dev := fabric.NewDevice()
		s := dev.AddWire("S")
		d := dev.AddWire("D")
		dev.AddPip("S->D", s, d, 1)

		srcBel := dev.AddBel("bel_drv")
		dev.SetBelPinWire(srcBel, "O", s)
		driver := dev.AddCell("drv", "LUT", srcBel)
		sink := dev.AddCell("snk", "LUT", dev.AddBel("bel_snk")) // pin "I" never attached
		dev.AddNet("sig", dev.PortRef(driver, "O"), dev.PortRef(sink, "I"))

		require.ErrorIs(t, route.All(dev), route.ErrNoPinWire)
	})
}

// TestAll_PinAliasResolution: a cell's logical port resolves through its
// Pins map to the physical pin attached to the bel.
func TestAll_PinAliasResolution(t *testing.T) {
	dev := fabric.NewDevice()
	s := dev.AddWire("S")
	d := dev.AddWire("D")
	dev.AddPip("S->D", s, d, 1)

	srcBel := dev.AddBel("bel_drv")
	dev.SetBelPinWire(srcBel, "LUT_O", s)
	driver := dev.AddCell("drv", "LUT", srcBel)
	dev.SetPinAlias(driver, "Q", "LUT_O")

	dstBel := dev.AddBel("bel_snk")
	dev.SetBelPinWire(dstBel, "LUT_I", d)
	sink := dev.AddCell("snk", "LUT", dstBel)
	dev.SetPinAlias(sink, "A", "LUT_I")

	dev.AddNet("sig", dev.PortRef(driver, "Q"), dev.PortRef(sink, "A"))

	require.NoError(t, route.All(dev))
	requireConnected(t, dev, "sig", s, d)
}

// TestAll_DeterministicGivenSeed: identical seeds and identical devices
// yield identical checksums; this is the replay contract.
func TestAll_DeterministicGivenSeed(t *testing.T) {
	build := func() *fabric.Device {
		dev := fabric.NewDevice(fabric.WithSeed(7))
		s := dev.AddWire("S")
		a := dev.AddWire("A")
		b := dev.AddWire("B")
		d := dev.AddWire("D")
		dev.AddPip("S->A", s, a, 1)
		dev.AddPip("S->B", s, b, 1)
		dev.AddPip("A->D", a, d, 1)
		dev.AddPip("B->D", b, d, 1)
		addNet(dev, "sig", endpoint{"drv", s}, endpoint{"snk", d})

		return dev
	}

	dev1 := build()
	dev2 := build()
	require.NoError(t, route.All(dev1))
	require.NoError(t, route.All(dev2))
	require.Equal(t, dev1.Checksum(), dev2.Checksum())
}
