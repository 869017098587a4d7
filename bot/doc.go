// Package bot steers unowned balls. The server invokes a Driver for every
// bot-controlled ball each tick.
//
// Two drivers ship with the module: RandomWalk, the built-in wanderer, and
// WASMDriver, which calls into a WebAssembly module loaded via wazero so
// steering behavior can be swapped without rebuilding the server.
//
// # WASM ABI
//
// A steering module exports one function:
//
//	steer(px, py, vx, vy, dt f32) u64
//
// receiving the ball's position and velocity plus the tick delta, and
// returning the new target velocity as two packed f32 bit patterns
// (x in the high 32 bits, y in the low 32 bits). The host provides
// env.random() f32 returning a uniform value in [0, 1).
package bot
