// Package server runs the authoritative game: a fixed-rate tick loop that
// drains network events, applies player input, steers bots, advances the
// simulation, and broadcasts changed components to every connection.
//
// The world lives on the tick goroutine; network pumps only touch it
// through the event channel the tick loop drains.
package server
