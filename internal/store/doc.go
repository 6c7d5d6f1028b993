// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying storage mechanism from the
// application's core logic. The only implementation shipped lives in
// internal/platform/memory and keeps state for the lifetime of the process.
package store
