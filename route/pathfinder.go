package route

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/pnroute/arch"
)

// netRouter holds the state of routing one net (or one probe query): the
// congestion policy in force, the visited map of the most recent search, and
// the accounting surfaced back to the rip-up loop.
type netRouter struct {
	ctx     arch.Context
	scores  *Scoreboard
	netName arch.IdString

	ripup        bool
	ripupPenalty arch.Delay

	rippedNets map[arch.IdString]struct{}
	visited    map[arch.WireId]QueuedWire

	visitCnt           int
	revisitCnt         int
	overtimeRevisitCnt int

	routedOkay bool
	maxDelay   arch.Delay
	failedDest arch.WireId
}

// newNetRouter prepares router state for one net under the given congestion
// policy. Nothing is searched or bound yet.
func newNetRouter(ctx arch.Context, scores *Scoreboard, netName arch.IdString, ripup bool, ripupPenalty arch.Delay) *netRouter {
	return &netRouter{
		ctx:          ctx,
		scores:       scores,
		netName:      netName,
		ripup:        ripup,
		ripupPenalty: ripupPenalty,
		rippedNets:   make(map[arch.IdString]struct{}),
		visited:      make(map[arch.WireId]QueuedWire),
	}
}

// search runs one best-first search from srcWires (each with its start delay)
// toward dstWire, populating r.visited. If dstWire is reachable under the
// current availability and congestion policy, it ends up in r.visited with
// its best found arrival record.
//
// The search keeps going for 50% additional edge examinations after the
// destination is first discovered, in case a cheaper arrival appears, then
// stops. This is a deliberate bounded-quality trade.
func (r *netRouter) search(proxy arch.MutateProxy, srcWires map[arch.WireId]arch.Delay, dstWire arch.WireId) {
	ctx := r.ctx
	epsilon := ctx.DelayEpsilon()

	// 1) Reset the visited map and seed the frontier with every source wire
	//    at its start delay.
	queue := make(wireQueue, 0, len(srcWires))
	r.visited = make(map[arch.WireId]QueuedWire, len(r.visited))

	for w, d0 := range srcWires {
		qw := QueuedWire{
			Wire:    w,
			Delay:   d0,
			Togo:    ctx.EstimateDelay(w, dstWire),
			Randtag: ctx.Rand(),
		}
		queue = append(queue, qw)
		r.visited[w] = qw
	}
	heap.Init(&queue)

	// 2) Visit budget: zero until the destination is first found in the
	//    visited map at a pop, then 1.5× the edges examined so far.
	thisVisitCnt := 0
	thisVisitCntLimit := 0

	for queue.Len() > 0 && (thisVisitCntLimit == 0 || thisVisitCnt < thisVisitCntLimit) {
		qw := heap.Pop(&queue).(QueuedWire)

		if thisVisitCntLimit == 0 {
			if _, ok := r.visited[dstWire]; ok {
				thisVisitCntLimit = (thisVisitCnt * 3) / 2
			}
		}

		// Lazy decrease-key: skip entries a later relaxation made stale.
		if best := r.visited[qw.Wire]; qw.Delay > best.Delay {
			continue
		}

		// 3) Expand every downhill pip of the popped wire.
		for _, pip := range ctx.PipsDownhill(qw.Wire) {
			nextDelay := qw.Delay + ctx.PipDelay(pip).Avg
			nextWire := ctx.PipDstWire(pip)
			foundRipupNet := false
			thisVisitCnt++

			// 3a) Wire-side availability. Unavailable wires are walls with
			//     rip-up disabled; with rip-up enabled they cost their
			//     congestion history plus the current penalty.
			if !proxy.CheckWireAvail(nextWire) {
				if !r.ripup {
					continue
				}
				ripupWireNet := proxy.ConflictingWireNet(nextWire)
				if ripupWireNet == r.netName || ripupWireNet.Empty() {
					continue
				}

				nextDelay += arch.Delay(r.scores.WireScore(nextWire)) * r.ripupPenalty / 8
				nextDelay += arch.Delay(r.scores.NetWireScore(ripupWireNet, nextWire)) * r.ripupPenalty
				foundRipupNet = true
			}

			// 3b) Pip-side availability, symmetric to the wire side.
			if !proxy.CheckPipAvail(pip) {
				if !r.ripup {
					continue
				}
				ripupPipNet := proxy.ConflictingPipNet(pip)
				if ripupPipNet == r.netName || ripupPipNet.Empty() {
					continue
				}

				nextDelay += arch.Delay(r.scores.PipScore(pip)) * r.ripupPenalty / 8
				nextDelay += arch.Delay(r.scores.NetPipScore(ripupPipNet, pip)) * r.ripupPenalty
				foundRipupNet = true
			}

			// 3c) Flat conflict surcharge on top of history.
			if foundRipupNet {
				nextDelay += r.ripupPenalty
			}

			if nextDelay < 0 {
				panic(fmt.Sprintf("route: negative path cost %g at wire %s", nextDelay, ctx.WireName(nextWire)))
			}

			// 3d) Relaxation with epsilon slack; count revisits by whether
			//     the post-discovery budget has engaged.
			if old, ok := r.visited[nextWire]; ok {
				if old.Delay <= nextDelay+epsilon {
					continue
				}
				if thisVisitCntLimit == 0 {
					r.revisitCnt++
				} else {
					r.overtimeRevisitCnt++
				}
			}

			next := QueuedWire{
				Wire:    nextWire,
				Pip:     pip,
				Delay:   nextDelay,
				Togo:    ctx.EstimateDelay(nextWire, dstWire),
				Randtag: ctx.Rand(),
			}

			r.visited[next.Wire] = next
			heap.Push(&queue, next)
		}
	}

	r.visitCnt += thisVisitCnt
}
