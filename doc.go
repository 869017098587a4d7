// Package arugio is a multiplayer ball game: an authoritative game server,
// a channel-multiplexed state-sync protocol, and a headless client library.
//
// Each connected player steers a ball on a 2D plane. The server runs the
// simulation at a fixed tick rate, keeps a pool of bot-driven balls, hands
// one to every client that connects, and broadcasts changed components to
// all clients each tick.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	arugio/              Root package with shared defaults
//	├── game/            Deterministic simulation core: world, balls, systems
//	├── protocol/        Message types, channel table, wire codec
//	├── transport/       WebSocket transport with reliable/droppable delivery
//	├── server/          Authoritative server: tick loop, ownership, broadcast
//	├── bot/             Steering drivers: random walk and wazero-hosted WASM
//	├── store/           bbolt world snapshot persistence
//	├── client/          Headless client: replica world, prediction, input
//	└── errors/          Structured error types shared by all packages
//
// # Quick Start
//
// Run a server:
//
//	srv, err := server.New(server.Config{Addr: arugio.DefaultAddr})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Join as a headless client:
//
//	cl := client.New(client.Config{URL: "ws://127.0.0.1:9001/ws"})
//	if err := cl.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The game world is confined to the owning tick goroutine and is NOT safe
// for concurrent mutation. Transport connections are safe for concurrent
// sends. Client snapshots are immutable copies.
package arugio
