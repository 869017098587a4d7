// Package game implements the deterministic simulation core: balls, their
// components, the world that holds them, and the fixed-timestep systems that
// advance it.
//
// The world tracks which components changed since the last drain so the
// server can broadcast only deltas. It is NOT safe for concurrent mutation;
// callers confine it to a single tick goroutine.
package game
