// Package client implements a headless game client: it connects, completes
// the hello/welcome handshake, mirrors the server's world from component
// updates, predicts between updates with the shared simulation systems, and
// broadcasts local input.
//
// UIs drive it through SetTarget and render from Snapshot; the package
// itself draws nothing.
package client
