package route

import (
	"fmt"

	"github.com/katalvlaran/pnroute/arch"
)

// ripupNet unbinds every resource currently held by netName: pip bindings
// first, then direct wire bindings. It is idempotent – ripping up an unrouted
// net is a no-op.
func ripupNet(proxy arch.MutateProxy, ctx arch.Context, netName arch.IdString) {
	netInfo := ctx.Nets()[netName]

	pips := make([]arch.PipId, 0, len(netInfo.Wires))
	wires := make([]arch.WireId, 0, len(netInfo.Wires))

	for w, b := range netInfo.Wires {
		if !b.Pip.None() {
			pips = append(pips, b.Pip)
		} else {
			wires = append(wires, w)
		}
	}

	for _, pip := range pips {
		proxy.UnbindPip(pip)
	}
	for _, wire := range wires {
		proxy.UnbindWire(wire)
	}

	if len(netInfo.Wires) != 0 {
		panic(fmt.Sprintf("route: net %s still holds %d wires after ripup", ctx.NetName(netName), len(netInfo.Wires)))
	}
}

// portWire resolves a cell's port to the attached wire: apply the cell's
// logical-port → physical-pin aliasing, then look the pin up on the bel.
// Missing placement or a missing pin wire is a hard error with context.
func portWire(ctx arch.Context, ref arch.PortRef, role string) (arch.WireId, error) {
	bel := ref.Cell.Bel
	if bel.None() {
		return 0, fmt.Errorf("%w: %s cell %s (%s)",
			ErrNoBel, role, ctx.NetName(ref.Cell.Name), ctx.NetName(ref.Cell.Type))
	}

	port := ref.Port
	if alias, ok := ref.Cell.Pins[port]; ok {
		port = alias
	}

	wire := ctx.WireBelPin(bel, ctx.PortPinFromId(port))
	if wire.None() {
		return 0, fmt.Errorf("%w: port %s (pin %s) on %s cell %s (bel %s)",
			ErrNoPinWire, ctx.NetName(ref.Port), ctx.NetName(port), role,
			ctx.NetName(ref.Cell.Name), ctx.BelName(bel))
	}

	return wire, nil
}

// routeNet routes all sinks of r.netName, binding resources through the
// proxy. On success r.routedOkay is true and r.maxDelay holds the slowest
// sink arrival. A soft failure (some sink unreachable) leaves the net fully
// unbound with r.routedOkay false and r.failedDest set. The returned error is
// non-nil only for hard placement faults.
func (r *netRouter) routeNet() error {
	ctx := r.ctx
	netInfo := ctx.Nets()[r.netName]

	if ctx.Debug() {
		fmt.Printf("Routing net %s.\n", ctx.NetName(r.netName))
		fmt.Printf("  Source: %s.%s.\n", ctx.NetName(netInfo.Driver.Cell.Name), ctx.NetName(netInfo.Driver.Port))
	}

	// 1) Resolve the driver to its source wire.
	srcWire, err := portWire(ctx, netInfo.Driver, "source")
	if err != nil {
		return err
	}

	if ctx.Debug() {
		fmt.Printf("    Source bel: %s\n", ctx.BelName(netInfo.Driver.Cell.Bel))
		fmt.Printf("    Source wire: %s\n", ctx.WireName(srcWire))
	}

	srcWires := map[arch.WireId]arch.Delay{srcWire: 0}

	// 2) Idempotent rip-up of any previous bindings, then claim the source
	//    wire weakly so a later rip-up may still evict it.
	proxy := ctx.RWProxy()

	ripupNet(proxy, ctx, r.netName)
	proxy.BindWire(srcWire, r.netName, arch.StrengthWeak)

	// 3) Sinks are processed in an RNG-shuffled order; the order affects the
	//    produced routing but not correctness.
	users := make([]arch.PortRef, len(netInfo.Users))
	copy(users, netInfo.Users)
	ctx.Shuffle(len(users), func(i, j int) { users[i], users[j] = users[j], users[i] })

	for _, user := range users {
		if ctx.Debug() {
			fmt.Printf("  Route to: %s.%s.\n", ctx.NetName(user.Cell.Name), ctx.NetName(user.Port))
		}

		dstWire, err := portWire(ctx, user, "destination")
		if err != nil {
			return err
		}

		if ctx.Debug() {
			fmt.Printf("    Destination wire: %s\n", ctx.WireName(dstWire))
			fmt.Printf("    Path delay estimate: %.2f\n", ctx.EstimateDelay(srcWire, dstWire))
		}

		// 4) Search from the routed spine so far toward this sink.
		r.search(proxy, srcWires, dstWire)

		if _, ok := r.visited[dstWire]; !ok {
			if ctx.Debug() || (r.ripup && ctx.Verbose()) {
				fmt.Printf("Failed to route %s -> %s.\n", ctx.WireName(srcWire), ctx.WireName(dstWire))
			}
			ripupNet(proxy, ctx, r.netName)
			r.failedDest = dstWire

			return nil
		}

		if ctx.Debug() {
			fmt.Printf("    Final path delay: %.3f\n", ctx.DelayNS(r.visited[dstWire].Delay))
		}
		if d := r.visited[dstWire].Delay; d > r.maxDelay {
			r.maxDelay = d
		}

		// 5) Back-trace from the sink into the spine, resolving conflicts
		//    and binding the path as we go.
		r.backtrace(proxy, srcWires, dstWire)
	}

	r.routedOkay = true

	return nil
}

// backtrace walks the visited predecessor chain from dstWire until it reaches
// a wire already on the net's spine. Along the way it evicts conflicting
// bindings (rip-up mode only), advances the scoreboard for both parties of
// each conflict, binds the arriving pip weakly, and merges the walked wires
// into srcWires with their accumulated delays so later sinks reuse the spine.
func (r *netRouter) backtrace(proxy arch.MutateProxy, srcWires map[arch.WireId]arch.Delay, dstWire arch.WireId) {
	ctx := r.ctx

	if ctx.Debug() {
		fmt.Printf("    Route (from destination to source):\n")
	}

	cursor := dstWire

	for {
		if ctx.Debug() {
			fmt.Printf("    %8.3f %s\n", ctx.DelayNS(r.visited[cursor].Delay), ctx.WireName(cursor))
		}

		if _, ok := srcWires[cursor]; ok {
			break
		}

		// Wire-side conflict: only legal in rip-up mode, and never with
		// ourselves (our own bindings never read as conflicts).
		if conflict := proxy.ConflictingWireNet(cursor); !conflict.Empty() {
			if !r.ripup {
				panic(fmt.Sprintf("route: wire conflict on %s with ripup disabled", ctx.WireName(cursor)))
			}
			if conflict == r.netName {
				panic(fmt.Sprintf("route: net %s conflicts with itself on %s", ctx.NetName(r.netName), ctx.WireName(cursor)))
			}

			proxy.UnbindWire(cursor)
			if !proxy.CheckWireAvail(cursor) {
				ripupNet(proxy, ctx, conflict)
			}

			r.rippedNets[conflict] = struct{}{}
			r.scores.bumpWire(cursor, r.netName, conflict)
		}

		pip := r.visited[cursor].Pip

		// Pip-side conflict, symmetric to the wire side.
		if conflict := proxy.ConflictingPipNet(pip); !conflict.Empty() {
			if !r.ripup {
				panic("route: pip conflict with ripup disabled")
			}
			if conflict == r.netName {
				panic(fmt.Sprintf("route: net %s conflicts with itself on a pip", ctx.NetName(r.netName)))
			}

			proxy.UnbindPip(pip)
			if !proxy.CheckPipAvail(pip) {
				ripupNet(proxy, ctx, conflict)
			}

			r.rippedNets[conflict] = struct{}{}
			r.scores.bumpPip(pip, r.netName, conflict)
		}

		proxy.BindPip(pip, r.netName, arch.StrengthWeak)
		srcWires[cursor] = r.visited[cursor].Delay
		cursor = ctx.PipSrcWire(pip)
	}
}
