// Package protocol defines the wire protocol between server and clients:
// the channel table, the message types carried on each channel, and the
// frame codec.
//
// Every message travels in its own WebSocket binary frame: one channel byte
// followed by a msgpack payload. Channels 0 and 1 carry reliable control
// messages; channels 2-4 carry droppable component updates.
package protocol
