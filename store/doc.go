// Package store persists world snapshots in a bbolt database so the server
// can restore its ball population across restarts.
package store
