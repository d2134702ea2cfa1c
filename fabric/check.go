package fabric

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/katalvlaran/pnroute/arch"
)

// ErrInconsistent indicates the binding state failed the deep consistency
// check – some wire, pip and netlist records disagree.
var ErrInconsistent = errors.New("fabric: inconsistent binding state")

// Checksum summarizes the current binding state: FNV-1a over every bound
// wire and pip in handle order. Identical binding states produce identical
// checksums, so replays can be compared cheaply.
func (d *Device) Checksum() uint32 {
	h := fnv.New32a()
	buf := make([]byte, 8)

	put := func(kind byte, handle uint32, net arch.IdString) {
		buf[0] = kind
		buf[1] = byte(handle)
		buf[2] = byte(handle >> 8)
		buf[3] = byte(handle >> 16)
		buf[4] = byte(net)
		buf[5] = byte(net >> 8)
		buf[6] = byte(net >> 16)
		buf[7] = byte(net >> 24)
		h.Write(buf)
	}

	for i := range d.wires {
		if !d.wires[i].bound.Empty() {
			put('w', uint32(i+1), d.wires[i].bound)
		}
	}
	for i := range d.pips {
		if !d.pips[i].bound.Empty() {
			put('p', uint32(i+1), d.pips[i].bound)
		}
	}

	return h.Sum32()
}

// Check runs a deep consistency check over the binding state:
//
//   - every net wire entry matches a wire bound to that net, with the
//     recorded arrival pip (if any) bound to the net and ending on the wire;
//   - every bound wire and pip is accounted for by exactly one net entry.
//
// Returns nil when consistent, or ErrInconsistent wrapped with the first
// mismatch found.
func (d *Device) Check() error {
	wireSeen := make(map[arch.WireId]arch.IdString)
	pipSeen := make(map[arch.PipId]arch.IdString)

	for netName, net := range d.nets {
		for w, binding := range net.Wires {
			if prev, ok := wireSeen[w]; ok {
				return fmt.Errorf("%w: wire %s claimed by both %s and %s",
					ErrInconsistent, d.WireName(w), d.NetName(prev), d.NetName(netName))
			}
			wireSeen[w] = netName

			if d.wires[w-1].bound != netName {
				return fmt.Errorf("%w: net %s lists wire %s but the wire is bound to %q",
					ErrInconsistent, d.NetName(netName), d.WireName(w), d.NetName(d.wires[w-1].bound))
			}

			if binding.Pip.None() {
				continue
			}

			if prev, ok := pipSeen[binding.Pip]; ok {
				return fmt.Errorf("%w: pip claimed by both %s and %s",
					ErrInconsistent, d.NetName(prev), d.NetName(netName))
			}
			pipSeen[binding.Pip] = netName

			if d.pips[binding.Pip-1].bound != netName {
				return fmt.Errorf("%w: net %s lists a pip bound to %q",
					ErrInconsistent, d.NetName(netName), d.NetName(d.pips[binding.Pip-1].bound))
			}
			if d.pips[binding.Pip-1].dst != w {
				return fmt.Errorf("%w: net %s records an arrival pip not ending on wire %s",
					ErrInconsistent, d.NetName(netName), d.WireName(w))
			}
		}
	}

	for i := range d.wires {
		if b := d.wires[i].bound; !b.Empty() {
			if wireSeen[arch.WireId(i+1)] != b {
				return fmt.Errorf("%w: wire %s bound to %s but missing from its net",
					ErrInconsistent, d.WireName(arch.WireId(i+1)), d.NetName(b))
			}
		}
	}
	for i := range d.pips {
		if b := d.pips[i].bound; !b.Empty() {
			if pipSeen[arch.PipId(i+1)] != b {
				return fmt.Errorf("%w: pip bound to %s but missing from its net",
					ErrInconsistent, d.NetName(b))
			}
		}
	}

	return nil
}
