// Package transport moves protocol frames over WebSocket connections.
//
// Each connection owns a read pump and a write pump. Outbound frames pass
// through a bounded queue with two delivery classes: Send blocks until the
// frame is queued (reliable control channels) while SendDroppable discards
// the frame when the queue is full, mirroring the unreliable component
// channels of the wire protocol.
//
// Both ends surface connection lifecycle and inbound messages as Events on
// a channel the owner drains from its tick loop.
package transport
