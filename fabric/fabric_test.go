// Package fabric_test validates the in-memory device: interning, the
// builder, binding semantics (pip bindings claim their destination wire),
// RNG determinism, checksum stability, and the consistency check.
package fabric_test

import (
	"testing"

	"github.com/katalvlaran/pnroute/arch"
	"github.com/katalvlaran/pnroute/fabric"
)

func TestDevice_InterningAndNames(t *testing.T) {
	dev := fabric.NewDevice()

	if id := dev.Id(""); !id.Empty() {
		t.Fatalf("interning the empty string must return the empty sentinel, got %d", id)
	}

	a := dev.Id("clk")
	if a != dev.Id("clk") {
		t.Fatalf("interning the same name twice must return the same handle")
	}
	if dev.NetName(a) != "clk" {
		t.Fatalf("NetName(%d) = %q; want %q", a, dev.NetName(a), "clk")
	}

	w := dev.AddWire("W0")
	if dev.WireName(w) != "W0" {
		t.Fatalf("WireName = %q; want W0", dev.WireName(w))
	}
	if dev.WireName(0) != "" {
		t.Fatalf("the none wire must have an empty name")
	}
}

func TestDevice_Topology(t *testing.T) {
	dev := fabric.NewDevice()
	s := dev.AddWire("S")
	d := dev.AddWire("D")
	p := dev.AddPip("S->D", s, d, 4)

	if got := dev.PipSrcWire(p); got != s {
		t.Fatalf("PipSrcWire = %v; want %v", got, s)
	}
	if got := dev.PipDstWire(p); got != d {
		t.Fatalf("PipDstWire = %v; want %v", got, d)
	}
	if got := dev.PipDelay(p).Avg; got != 4 {
		t.Fatalf("PipDelay.Avg = %v; want 4", got)
	}

	down := dev.PipsDownhill(s)
	if len(down) != 1 || down[0] != p {
		t.Fatalf("PipsDownhill(S) = %v; want [%v]", down, p)
	}
	if len(dev.PipsDownhill(d)) != 0 {
		t.Fatalf("PipsDownhill(D) must be empty")
	}
}

func TestDevice_BindPipClaimsDestinationWire(t *testing.T) {
	dev := fabric.NewDevice()
	s := dev.AddWire("S")
	d := dev.AddWire("D")
	p := dev.AddPip("S->D", s, d, 1)

	cell := dev.AddCell("drv", "LUT", dev.AddBel("B0"))
	dev.AddNet("sig", dev.PortRef(cell, "O"))
	sig := dev.Id("sig")

	proxy := dev.RWProxy()
	proxy.BindPip(p, sig, arch.StrengthWeak)

	if proxy.CheckWireAvail(d) {
		t.Fatalf("binding a pip must claim its destination wire")
	}
	if got := proxy.ConflictingWireNet(d); got != sig {
		t.Fatalf("ConflictingWireNet(D) = %v; want %v", got, sig)
	}
	if binding := dev.Nets()[sig].Wires[d]; binding.Pip != p {
		t.Fatalf("the net must record the arrival pip, got %v", binding.Pip)
	}

	proxy.UnbindPip(p)
	if !proxy.CheckWireAvail(d) || !proxy.CheckPipAvail(p) {
		t.Fatalf("unbinding the pip must release both the pip and the wire")
	}
	if len(dev.Nets()[sig].Wires) != 0 {
		t.Fatalf("the net must hold no resources after unbinding")
	}
}

func TestDevice_UnbindWireReleasesArrivalPip(t *testing.T) {
	dev := fabric.NewDevice()
	s := dev.AddWire("S")
	d := dev.AddWire("D")
	p := dev.AddPip("S->D", s, d, 1)

	cell := dev.AddCell("drv", "LUT", dev.AddBel("B0"))
	dev.AddNet("sig", dev.PortRef(cell, "O"))
	sig := dev.Id("sig")

	proxy := dev.RWProxy()
	proxy.BindPip(p, sig, arch.StrengthWeak)
	proxy.UnbindWire(d)

	if !proxy.CheckPipAvail(p) {
		t.Fatalf("unbinding a pip-claimed wire must release the pip too")
	}
	if !proxy.CheckWireAvail(d) {
		t.Fatalf("the wire must be free after unbinding")
	}
}

func TestDevice_DoubleBindPanics(t *testing.T) {
	dev := fabric.NewDevice()
	w := dev.AddWire("W")

	cell := dev.AddCell("drv", "LUT", dev.AddBel("B0"))
	dev.AddNet("a", dev.PortRef(cell, "O"))
	dev.AddNet("b", dev.PortRef(cell, "O"))

	proxy := dev.RWProxy()
	proxy.BindWire(w, dev.Id("a"), arch.StrengthWeak)

	defer func() {
		if recover() == nil {
			t.Fatalf("binding an already-bound wire must panic")
		}
	}()
	proxy.BindWire(w, dev.Id("b"), arch.StrengthWeak)
}

func TestDevice_ChecksumTracksBindings(t *testing.T) {
	dev := fabric.NewDevice()
	w := dev.AddWire("W")

	cell := dev.AddCell("drv", "LUT", dev.AddBel("B0"))
	dev.AddNet("sig", dev.PortRef(cell, "O"))

	empty := dev.Checksum()
	dev.RWProxy().BindWire(w, dev.Id("sig"), arch.StrengthWeak)
	bound := dev.Checksum()

	if empty == bound {
		t.Fatalf("the checksum must change when bindings change")
	}

	dev.RWProxy().UnbindWire(w)
	if dev.Checksum() != empty {
		t.Fatalf("identical binding states must produce identical checksums")
	}
}

func TestDevice_RNGDeterminism(t *testing.T) {
	d1 := fabric.NewDevice(fabric.WithSeed(99))
	d2 := fabric.NewDevice(fabric.WithSeed(99))

	for i := 0; i < 16; i++ {
		a, b := d1.Rand(), d2.Rand()
		if a != b {
			t.Fatalf("draw %d: %d != %d – identical seeds must replay identically", i, a, b)
		}
		if a < 0 {
			t.Fatalf("Rand must be nonnegative, got %d", a)
		}
	}
}

func TestDevice_SortedShuffleIgnoresInputOrder(t *testing.T) {
	build := func() (*fabric.Device, []arch.IdString) {
		dev := fabric.NewDevice(fabric.WithSeed(5))
		ids := []arch.IdString{dev.Id("alpha"), dev.Id("beta"), dev.Id("gamma"), dev.Id("delta")}

		return dev, ids
	}

	d1, ids1 := build()
	d1.SortedShuffle(ids1)

	// Same names presented in a different order must land identically:
	// the sort step erases input order before the shuffle.
	d2, ids2 := build()
	ids2[0], ids2[3] = ids2[3], ids2[0]
	ids2[1], ids2[2] = ids2[2], ids2[1]
	d2.SortedShuffle(ids2)

	for i := range ids1 {
		if d1.NetName(ids1[i]) != d2.NetName(ids2[i]) {
			t.Fatalf("position %d: %q != %q – sorted shuffle must not depend on input order",
				i, d1.NetName(ids1[i]), d2.NetName(ids2[i]))
		}
	}
}

func TestDevice_CheckAcceptsConsistentState(t *testing.T) {
	dev := fabric.NewDevice()
	s := dev.AddWire("S")
	d := dev.AddWire("D")
	p := dev.AddPip("S->D", s, d, 1)

	cell := dev.AddCell("drv", "LUT", dev.AddBel("B0"))
	dev.AddNet("sig", dev.PortRef(cell, "O"))
	sig := dev.Id("sig")

	proxy := dev.RWProxy()
	proxy.BindWire(s, sig, arch.StrengthWeak)
	proxy.BindPip(p, sig, arch.StrengthWeak)

	if err := dev.Check(); err != nil {
		t.Fatalf("consistent state must pass the check: %v", err)
	}
}

func TestDevice_BelPins(t *testing.T) {
	dev := fabric.NewDevice()
	w := dev.AddWire("W")
	bel := dev.AddBel("B0")
	dev.SetBelPinWire(bel, "O", w)

	pin := dev.PortPinFromId(dev.Id("O"))
	if got := dev.WireBelPin(bel, pin); got != w {
		t.Fatalf("WireBelPin = %v; want %v", got, w)
	}
	if got := dev.WireBelPin(bel, dev.PortPinFromId(dev.Id("I"))); !got.None() {
		t.Fatalf("an unattached pin must resolve to the none wire, got %v", got)
	}
	if got := dev.WireBelPin(0, pin); !got.None() {
		t.Fatalf("the none bel must resolve to the none wire")
	}
}
