package fabric

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/pnroute/arch"
)

// wireData is one routing wire segment: its interned name, the pips leaving
// it, and the current binding.
type wireData struct {
	name     arch.IdString
	downhill []arch.PipId

	bound    arch.IdString
	strength arch.Strength
}

// pipData is one programmable interconnect point: endpoints, delay, binding.
type pipData struct {
	name arch.IdString
	src  arch.WireId
	dst  arch.WireId

	delay arch.DelayInfo

	bound    arch.IdString
	strength arch.Strength
}

// belData is one placed logic site: its name and the pin → wire attachment.
type belData struct {
	name arch.IdString
	pins map[arch.PortPin]arch.WireId
}

// Device is an in-memory routing target: wires, pips, bels, cells and nets,
// plus the binding state and the RNG stream the router draws from.
// It implements arch.Context and arch.MutateProxy.
type Device struct {
	debug   bool
	verbose bool

	epsilon      arch.Delay
	ripupPenalty arch.Delay
	estimate     func(src, dst arch.WireId) arch.Delay

	// names[0] is the empty name; handle h names names[h], so the zero
	// handle stays the empty sentinel.
	names []string
	ids   map[string]arch.IdString

	wires []wireData
	pips  []pipData
	bels  []belData

	cells map[arch.IdString]*arch.CellInfo
	nets  map[arch.IdString]*arch.NetInfo

	rng *rand.Rand
}

// DeviceOption is a functional option for configuring NewDevice.
type DeviceOption func(*Device)

// WithSeed fixes the device RNG seed. Zero selects the stable default seed.
func WithSeed(seed int64) DeviceOption {
	return func(d *Device) { d.rng = rngFromSeed(seed) }
}

// WithDebug enables per-route debug dumps in the router.
func WithDebug() DeviceOption {
	return func(d *Device) { d.debug = true }
}

// WithVerbose enables per-iteration progress output in the router.
func WithVerbose() DeviceOption {
	return func(d *Device) { d.verbose = true }
}

// WithDelayEpsilon sets the slack used for near-equal cost comparisons.
// Must be nonnegative; negative values panic.
func WithDelayEpsilon(eps arch.Delay) DeviceOption {
	return func(d *Device) {
		if eps < 0 {
			panic("fabric: delay epsilon must be nonnegative")
		}
		d.epsilon = eps
	}
}

// WithRipupPenalty sets the device's nominal ripup penalty unit.
// Must be positive; zero or negative values panic.
func WithRipupPenalty(p arch.Delay) DeviceOption {
	return func(d *Device) {
		if p <= 0 {
			panic("fabric: ripup penalty must be positive")
		}
		d.ripupPenalty = p
	}
}

// WithEstimator installs a custom remaining-delay estimator. The router
// assumes it never overestimates the true minimum arrival delay; the default
// estimator returns zero, which is always admissible.
func WithEstimator(fn func(src, dst arch.WireId) arch.Delay) DeviceOption {
	return func(d *Device) { d.estimate = fn }
}

// NewDevice constructs an empty device.
//
// Defaults:
//   - Seed:         stable default (replayable).
//   - DelayEpsilon: 1e-9.
//   - RipupPenalty: 5.
//   - Estimator:    zero (admissible everywhere).
func NewDevice(opts ...DeviceOption) *Device {
	d := &Device{
		epsilon:      1e-9,
		ripupPenalty: 5,
		names:        []string{""},
		ids:          map[string]arch.IdString{"": 0},
		cells:        make(map[arch.IdString]*arch.CellInfo),
		nets:         make(map[arch.IdString]*arch.NetInfo),
		rng:          rngFromSeed(0),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Id interns a name and returns its handle. Interning the empty string
// returns the empty sentinel.
func (d *Device) Id(name string) arch.IdString {
	if id, ok := d.ids[name]; ok {
		return id
	}

	d.names = append(d.names, name)
	id := arch.IdString(len(d.names) - 1)
	d.ids[name] = id

	return id
}

// AddWire creates a routing wire segment. Names must be unique per device.
func (d *Device) AddWire(name string) arch.WireId {
	d.wires = append(d.wires, wireData{name: d.Id(name)})

	return arch.WireId(len(d.wires))
}

// AddPip creates a directed pip from src to dst with the given average delay
// and registers it downhill of src.
func (d *Device) AddPip(name string, src, dst arch.WireId, avg arch.Delay) arch.PipId {
	if avg < 0 {
		panic(fmt.Sprintf("fabric: negative pip delay %g", avg))
	}

	d.pips = append(d.pips, pipData{
		name:  d.Id(name),
		src:   src,
		dst:   dst,
		delay: arch.DelayInfo{Min: avg, Avg: avg, Max: avg},
	})
	pip := arch.PipId(len(d.pips))
	d.wires[src-1].downhill = append(d.wires[src-1].downhill, pip)

	return pip
}

// AddBel creates a placed logic site with no pins attached yet.
func (d *Device) AddBel(name string) arch.BelId {
	d.bels = append(d.bels, belData{name: d.Id(name), pins: make(map[arch.PortPin]arch.WireId)})

	return arch.BelId(len(d.bels))
}

// SetBelPinWire attaches a bel pin to a wire.
func (d *Device) SetBelPinWire(bel arch.BelId, pin string, w arch.WireId) {
	d.bels[bel-1].pins[arch.PortPin(d.Id(pin))] = w
}

// AddCell places a cell of the given type on a bel and registers it.
// Pass the none sentinel bel to model an unplaced cell.
func (d *Device) AddCell(name, typ string, bel arch.BelId) *arch.CellInfo {
	cell := &arch.CellInfo{
		Name: d.Id(name),
		Type: d.Id(typ),
		Bel:  bel,
		Pins: make(map[arch.IdString]arch.IdString),
	}
	d.cells[cell.Name] = cell

	return cell
}

// SetPinAlias maps a cell's logical port name to a physical pin name.
func (d *Device) SetPinAlias(cell *arch.CellInfo, port, pin string) {
	cell.Pins[d.Id(port)] = d.Id(pin)
}

// PortRef builds a (cell, port) endpoint reference.
func (d *Device) PortRef(cell *arch.CellInfo, port string) arch.PortRef {
	return arch.PortRef{Cell: cell, Port: d.Id(port)}
}

// AddNet declares a logical net with one driver and any number of users.
func (d *Device) AddNet(name string, driver arch.PortRef, users ...arch.PortRef) *arch.NetInfo {
	net := &arch.NetInfo{
		Name:   d.Id(name),
		Driver: driver,
		Users:  users,
		Wires:  make(map[arch.WireId]arch.WireBinding),
	}
	d.nets[net.Name] = net

	return net
}
