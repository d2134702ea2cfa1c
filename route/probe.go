package route

import (
	"fmt"

	"github.com/katalvlaran/pnroute/arch"
)

// ActualDelay runs one path search from srcWire to dstWire with rip-up
// disabled and a fresh scoreboard, and reports the best achievable arrival
// delay under the current binding state. It performs no binding mutations,
// so the device state is identical before and after the call, and repeated
// calls return identical answers.
//
// Returns (delay, true) when dstWire is reachable, (0, false) otherwise.
func ActualDelay(ctx arch.Context, srcWire, dstWire arch.WireId) (arch.Delay, bool) {
	router := newNetRouter(ctx, NewScoreboard(), 0, false, 0)

	srcWires := map[arch.WireId]arch.Delay{srcWire: 0}
	router.search(ctx.RWProxy(), srcWires, dstWire)

	qw, ok := router.visited[dstWire]
	if !ok {
		return 0, false
	}

	if ctx.Debug() {
		fmt.Printf("Route (from destination to source):\n")

		cursor := dstWire
		for {
			fmt.Printf("  %8.3f %s\n", ctx.DelayNS(router.visited[cursor].Delay), ctx.WireName(cursor))
			if cursor == srcWire {
				break
			}
			cursor = ctx.PipSrcWire(router.visited[cursor].Pip)
		}
	}

	return qw.Delay, true
}
