// Package task runs background work on a fixed pool of workers fed by a
// bounded in-memory queue. The server uses it to deliver sharing
// notifications without blocking request handling.
package task
