// Package pnroute is a negotiated-congestion signal router core for
// FPGA-style place-and-route flows.
//
// 🚀 What is pnroute?
//
//	A focused, dependency-light routing engine that takes a placed netlist
//	and assigns every sink of every net a conflict-free path of device
//	routing resources (wires joined by programmable pips):
//		• Best-first path search: A*-style search over the implicit device graph
//		• Rip-up and reroute: conflicts are allowed, penalized, and negotiated away
//		• Congestion history: per-resource and per-(net,resource) scoreboards
//		• Deterministic replay: all randomness flows from one seedable stream
//
// ✨ Why choose pnroute?
//
//   - Narrow seams – the device and netlist live behind a small proxy interface
//   - Reproducible – identical seeds and device state yield identical bindings
//   - Pure Go – no cgo, a single test-only third-party dependency
//   - Batteries included – an in-memory fabric model for tests and prototyping
//
// Under the hood, everything is organized under three subpackages:
//
//	arch/   – opaque resource handles, delay scalar, and the consumed proxy interfaces
//	route/  – path finder, per-net router, congestion scoreboard, rip-up loop, delay probe
//	fabric/ – an in-memory device + netlist implementation of arch.Context
//
// Quick ASCII example:
//
//	    S ──pip──▶ A ──pip──▶ D
//	     \                   ▲
//	      ──pip──▶ B ──pip───┘
//
//	two candidate paths from a driver wire S to a sink wire D; the router
//	picks one, and a second net contending for it negotiates via rip-up.
//
// Dive into the package docs of route/ for the algorithm contract and into
// fabric/ for building synthetic devices.
//
//	go get github.com/katalvlaran/pnroute/route
package pnroute
