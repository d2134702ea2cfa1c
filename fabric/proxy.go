package fabric

import (
	"fmt"

	"github.com/katalvlaran/pnroute/arch"
)

// CheckWireAvail reports whether w can be bound without evicting anything.
func (d *Device) CheckWireAvail(w arch.WireId) bool { return d.wires[w-1].bound.Empty() }

// CheckPipAvail reports whether p can be bound without evicting anything.
func (d *Device) CheckPipAvail(p arch.PipId) bool { return d.pips[p-1].bound.Empty() }

// ConflictingWireNet returns the net currently bound to w, or the empty
// sentinel when w is free.
func (d *Device) ConflictingWireNet(w arch.WireId) arch.IdString { return d.wires[w-1].bound }

// ConflictingPipNet returns the net currently bound to p, or the empty
// sentinel when p is free.
func (d *Device) ConflictingPipNet(p arch.PipId) arch.IdString { return d.pips[p-1].bound }

// BindWire binds w directly to net. Binding an already-bound wire panics:
// the router resolves conflicts before binding, so a collision here is a bug.
func (d *Device) BindWire(w arch.WireId, net arch.IdString, strength arch.Strength) {
	wd := &d.wires[w-1]
	if !wd.bound.Empty() {
		panic(fmt.Sprintf("fabric: wire %s already bound to %s", d.WireName(w), d.NetName(wd.bound)))
	}

	wd.bound = net
	wd.strength = strength
	d.nets[net].Wires[w] = arch.WireBinding{Strength: strength}
}

// UnbindWire releases w. If w was claimed through a pip, that pip is
// released with it.
func (d *Device) UnbindWire(w arch.WireId) {
	wd := &d.wires[w-1]
	if wd.bound.Empty() {
		panic(fmt.Sprintf("fabric: wire %s is not bound", d.WireName(w)))
	}

	binding := d.nets[wd.bound].Wires[w]
	if !binding.Pip.None() {
		pd := &d.pips[binding.Pip-1]
		pd.bound = 0
		pd.strength = arch.StrengthNone
	}

	delete(d.nets[wd.bound].Wires, w)
	wd.bound = 0
	wd.strength = arch.StrengthNone
}

// BindPip binds p to net and claims p's destination wire with it, recording
// p as the wire's arrival edge.
func (d *Device) BindPip(p arch.PipId, net arch.IdString, strength arch.Strength) {
	pd := &d.pips[p-1]
	if !pd.bound.Empty() {
		panic(fmt.Sprintf("fabric: pip %s already bound to %s", d.NetName(pd.name), d.NetName(pd.bound)))
	}

	wd := &d.wires[pd.dst-1]
	if !wd.bound.Empty() {
		panic(fmt.Sprintf("fabric: wire %s already bound to %s", d.WireName(pd.dst), d.NetName(wd.bound)))
	}

	pd.bound = net
	pd.strength = strength
	wd.bound = net
	wd.strength = strength
	d.nets[net].Wires[pd.dst] = arch.WireBinding{Pip: p, Strength: strength}
}

// UnbindPip releases p and the destination-wire claim made by BindPip.
func (d *Device) UnbindPip(p arch.PipId) {
	pd := &d.pips[p-1]
	if pd.bound.Empty() {
		panic(fmt.Sprintf("fabric: pip %s is not bound", d.NetName(pd.name)))
	}

	wd := &d.wires[pd.dst-1]

	delete(d.nets[pd.bound].Wires, pd.dst)
	pd.bound = 0
	pd.strength = arch.StrengthNone
	wd.bound = 0
	wd.strength = arch.StrengthNone
}
