package route

import (
	"fmt"

	"github.com/katalvlaran/pnroute/arch"
)

// logf prints progress output when the context runs verbose. The router is
// silent by default; diagnostics are opt-in through the context flags.
func logf(ctx arch.Context, format string, args ...interface{}) {
	if ctx.Verbose() {
		fmt.Printf(format, args...)
	}
}

// All routes every unrouted net in the netlist exposed by ctx – nets whose
// wires map is empty and whose driver cell is set – until no conflicts
// remain or the iteration cap is hit.
//
// Per iteration:
//
//  1. Snapshot the nets queue into a sorted-shuffled array (replay depends on
//     the RNG stream, never on set iteration order) and clear the queue.
//  2. Pass A: route each net with rip-up disabled; failures go to the rip-up
//     queue.
//  3. Pass B: route each failed net with rip-up enabled at the current
//     penalty; every net ripped up along the way is re-queued for the next
//     iteration. A rip-up-mode failure aborts with ErrUnroutable.
//  4. At iteration boundaries 8, 16, 32, 64 and 128 the ripup penalty grows
//     by the device's base penalty increment – the negotiated-congestion
//     escalation that prices chronically contested resources out of reach.
//
// Returns nil on success; ErrIterationLimit, ErrUnroutable, ErrNoBel or
// ErrNoPinWire (all wrapped with context) on failure. On both the success
// and the iteration-limit exits the device checksum is reported (verbose)
// and the consistency check runs.
//
// Complexity: bounded by MaxIterations outer iterations; each net routing is
// one path search per sink.
func All(ctx arch.Context, opts ...Option) error {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	ripupPenalty := ctx.RipupDelayPenalty()
	scores := NewScoreboard()

	totalVisitCnt, totalRevisitCnt, totalOvertimeRevisitCnt := 0, 0, 0

	logf(ctx, "Routing..\n")

	// 2) Collect the unrouted nets.
	netsQueue := make(map[arch.IdString]struct{})

	for netName, netInfo := range ctx.Nets() {
		if netInfo.Driver.Cell == nil {
			continue
		}
		if len(netInfo.Wires) != 0 {
			continue
		}
		netsQueue[netName] = struct{}{}
	}

	if len(netsQueue) == 0 {
		logf(ctx, "found no unrouted nets. no routing necessary.\n")

		return nil
	}

	logf(ctx, "found %d unrouted nets. starting routing procedure.\n", len(netsQueue))

	// 3) Advisory pre-scan: estimated total wire delay over all resolvable
	//    source→sink pairs. Nets with missing placement data are skipped
	//    here and reported when actually routed.
	logEstimatedDelay(ctx, netsQueue)

	iterCnt := 0

	for len(netsQueue) > 0 {
		if iterCnt == cfg.MaxIterations {
			logf(ctx, "giving up after %d iterations.\n", iterCnt)
			logf(ctx, "Checksum: 0x%08x\n", ctx.Checksum())
			if err := ctx.Check(); err != nil {
				return fmt.Errorf("%w after %d iterations: consistency check: %v", ErrIterationLimit, iterCnt, err)
			}

			return fmt.Errorf("%w: %d iterations", ErrIterationLimit, iterCnt)
		}

		iterCnt++
		logf(ctx, "-- %d --\n", iterCnt)

		visitCnt, revisitCnt, overtimeRevisitCnt, netCnt := 0, 0, 0, 0

		ripupQueue := make(map[arch.IdString]struct{})

		logf(ctx, "routing queue contains %d nets.\n", len(netsQueue))

		printNets := ctx.Verbose() && len(netsQueue) < 10

		// 4) Deterministic snapshot of the queue.
		netsArray := make([]arch.IdString, 0, len(netsQueue))
		for netName := range netsQueue {
			netsArray = append(netsArray, netName)
		}
		ctx.SortedShuffle(netsArray)
		netsQueue = make(map[arch.IdString]struct{})

		// 5) Pass A: no rip-up. Failures feed the rip-up queue.
		for _, netName := range netsArray {
			if printNets {
				fmt.Printf("  routing net %s. (%d users)\n", ctx.NetName(netName), len(ctx.Nets()[netName].Users))
			}

			router := newNetRouter(ctx, scores, netName, false, 0)
			if err := router.routeNet(); err != nil {
				return err
			}

			netCnt++
			visitCnt += router.visitCnt
			revisitCnt += router.revisitCnt
			overtimeRevisitCnt += router.overtimeRevisitCnt

			if !router.routedOkay {
				if printNets {
					fmt.Printf("    failed to route to %s.\n", ctx.WireName(router.failedDest))
				}
				ripupQueue[netName] = struct{}{}
			}

			if !printNets && netCnt%100 == 0 {
				logf(ctx, "  processed %d nets. (%d routed, %d failed)\n", netCnt, netCnt-len(ripupQueue), len(ripupQueue))
			}
		}

		normalRouteCnt := netCnt - len(ripupQueue)

		if netCnt%100 != 0 {
			logf(ctx, "  processed %d nets. (%d routed, %d failed)\n", netCnt, normalRouteCnt, len(ripupQueue))
		}
		logVisitStats(ctx, visitCnt, revisitCnt, overtimeRevisitCnt)

		// 6) Pass B: rip-up mode for everything Pass A could not place.
		if len(ripupQueue) > 0 {
			logf(ctx, "failed to route %d nets. re-routing in ripup mode.\n", len(ripupQueue))

			printNets = ctx.Verbose() && len(ripupQueue) < 10

			visitCnt, revisitCnt, overtimeRevisitCnt, netCnt = 0, 0, 0, 0
			ripCnt := 0

			ripupArray := make([]arch.IdString, 0, len(ripupQueue))
			for netName := range ripupQueue {
				ripupArray = append(ripupArray, netName)
			}
			ctx.SortedShuffle(ripupArray)

			for _, netName := range ripupArray {
				if printNets {
					fmt.Printf("  routing net %s. (%d users)\n", ctx.NetName(netName), len(ctx.Nets()[netName].Users))
				}

				router := newNetRouter(ctx, scores, netName, true, ripupPenalty)
				if err := router.routeNet(); err != nil {
					return err
				}

				netCnt++
				visitCnt += router.visitCnt
				revisitCnt += router.revisitCnt
				overtimeRevisitCnt += router.overtimeRevisitCnt

				if !router.routedOkay {
					return fmt.Errorf("%w: net %s", ErrUnroutable, ctx.NetName(netName))
				}

				for ripped := range router.rippedNets {
					netsQueue[ripped] = struct{}{}
				}

				if printNets {
					if len(router.rippedNets) < 10 {
						fmt.Printf("    ripped up %d other nets:\n", len(router.rippedNets))
						for ripped := range router.rippedNets {
							fmt.Printf("      %s (%d users)\n", ctx.NetName(ripped), len(ctx.Nets()[ripped].Users))
						}
					} else {
						fmt.Printf("    ripped up %d other nets.\n", len(router.rippedNets))
					}
				}

				ripCnt += len(router.rippedNets)

				if !printNets && netCnt%100 == 0 {
					logf(ctx, "  routed %d nets, ripped %d nets.\n", netCnt, ripCnt)
				}
			}

			if netCnt%100 != 0 {
				logf(ctx, "  routed %d nets, ripped %d nets.\n", netCnt, ripCnt)
			}
			logVisitStats(ctx, visitCnt, revisitCnt, overtimeRevisitCnt)

			if len(netsQueue) > 0 {
				logf(ctx, "  ripped up %d previously routed nets. continue routing.\n", len(netsQueue))
			}
		}

		logf(ctx, "iteration %d: routed %d nets without ripup, routed %d nets with ripup.\n",
			iterCnt, normalRouteCnt, len(ripupQueue))

		totalVisitCnt += visitCnt
		totalRevisitCnt += revisitCnt
		totalOvertimeRevisitCnt += overtimeRevisitCnt

		// 7) Negotiated-congestion escalation.
		if iterCnt == 8 || iterCnt == 16 || iterCnt == 32 || iterCnt == 64 || iterCnt == 128 {
			ripupPenalty += ctx.RipupDelayPenalty()
		}
	}

	logf(ctx, "routing complete after %d iterations.\n", iterCnt)

	if totalVisitCnt > 0 {
		logf(ctx, "visited %d PIPs (%.2f%% revisits, %.2f%% overtime revisits).\n",
			totalVisitCnt, 100.0*float64(totalRevisitCnt)/float64(totalVisitCnt),
			100.0*float64(totalOvertimeRevisitCnt)/float64(totalVisitCnt))
	}

	logf(ctx, "Checksum: 0x%08x\n", ctx.Checksum())

	return ctx.Check()
}

// logEstimatedDelay reports the estimated total and average wire delay over
// every source→sink pair whose placement resolves. Purely advisory.
func logEstimatedDelay(ctx arch.Context, netsQueue map[arch.IdString]struct{}) {
	if !ctx.Verbose() {
		return
	}

	var estimatedTotalDelay arch.Delay
	estimatedTotalDelayCnt := 0

	for netName := range netsQueue {
		netInfo := ctx.Nets()[netName]

		srcBel := netInfo.Driver.Cell.Bel
		if srcBel.None() {
			continue
		}

		driverPort := netInfo.Driver.Port
		if alias, ok := netInfo.Driver.Cell.Pins[driverPort]; ok {
			driverPort = alias
		}

		srcWire := ctx.WireBelPin(srcBel, ctx.PortPinFromId(driverPort))
		if srcWire.None() {
			continue
		}

		for _, user := range netInfo.Users {
			dstBel := user.Cell.Bel
			if dstBel.None() {
				continue
			}

			userPort := user.Port
			if alias, ok := user.Cell.Pins[userPort]; ok {
				userPort = alias
			}

			dstWire := ctx.WireBelPin(dstBel, ctx.PortPinFromId(userPort))
			if dstWire.None() {
				continue
			}

			estimatedTotalDelay += ctx.EstimateDelay(srcWire, dstWire)
			estimatedTotalDelayCnt++
		}
	}

	if estimatedTotalDelayCnt > 0 {
		fmt.Printf("estimated total wire delay: %.2f (avg %.2f)\n",
			estimatedTotalDelay, estimatedTotalDelay/arch.Delay(estimatedTotalDelayCnt))
	}
}

// logVisitStats reports per-pass search effort when verbose.
func logVisitStats(ctx arch.Context, visitCnt, revisitCnt, overtimeRevisitCnt int) {
	if !ctx.Verbose() || visitCnt == 0 {
		return
	}
	fmt.Printf("  visited %d PIPs (%.2f%% revisits, %.2f%% overtime revisits).\n",
		visitCnt, 100.0*float64(revisitCnt)/float64(visitCnt), 100.0*float64(overtimeRevisitCnt)/float64(visitCnt))
}
