package route

import "github.com/katalvlaran/pnroute/arch"

// Scoreboard is the persistent congestion history of one routing invocation.
//
// It carries two tiers of counters:
//
//   - per-resource (wireScores, pipScores): "this wire is usually contested" –
//     a generic signal, attenuated by /8 in the path cost so it guides
//     without overwhelming;
//   - per-(net, resource) (netWireScores, netPipScores): "this specific net
//     keeps claiming this wire, push harder to evict it" – a targeted signal
//     applied at full weight.
//
// Counters start at zero, are incremented only by rip-up back-traces, and
// never shrink within an invocation.
type Scoreboard struct {
	wireScores map[arch.WireId]int
	pipScores  map[arch.PipId]int

	// Composite (IdString, handle) keys pack into one uint64 so the hot
	// lookups stay single-map, single-hash.
	netWireScores map[uint64]int
	netPipScores  map[uint64]int
}

// NewScoreboard returns an empty scoreboard.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{
		wireScores:    make(map[arch.WireId]int),
		pipScores:     make(map[arch.PipId]int),
		netWireScores: make(map[uint64]int),
		netPipScores:  make(map[uint64]int),
	}
}

// netWireKey packs a (net, wire) pair into a single 64-bit map key.
func netWireKey(net arch.IdString, w arch.WireId) uint64 {
	return uint64(net)<<32 | uint64(w)
}

// netPipKey packs a (net, pip) pair into a single 64-bit map key.
func netPipKey(net arch.IdString, p arch.PipId) uint64 {
	return uint64(net)<<32 | uint64(p)
}

// WireScore returns the global contention count of w.
func (s *Scoreboard) WireScore(w arch.WireId) int { return s.wireScores[w] }

// PipScore returns the global contention count of p.
func (s *Scoreboard) PipScore(p arch.PipId) int { return s.pipScores[p] }

// NetWireScore returns how often net has been involved in a conflict on w.
func (s *Scoreboard) NetWireScore(net arch.IdString, w arch.WireId) int {
	return s.netWireScores[netWireKey(net, w)]
}

// NetPipScore returns how often net has been involved in a conflict on p.
func (s *Scoreboard) NetPipScore(net arch.IdString, p arch.PipId) int {
	return s.netPipScores[netPipKey(net, p)]
}

// bumpWire records a conflict on w between the routing net and the evicted
// net: the global counter and both targeted counters advance.
func (s *Scoreboard) bumpWire(w arch.WireId, routing, evicted arch.IdString) {
	s.wireScores[w]++
	s.netWireScores[netWireKey(routing, w)]++
	s.netWireScores[netWireKey(evicted, w)]++
}

// bumpPip records a conflict on p between the routing net and the evicted net.
func (s *Scoreboard) bumpPip(p arch.PipId, routing, evicted arch.IdString) {
	s.pipScores[p]++
	s.netPipScores[netPipKey(routing, p)]++
	s.netPipScores[netPipKey(evicted, p)]++
}
