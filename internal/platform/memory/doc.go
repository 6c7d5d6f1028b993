// Package memory provides process-lifetime implementations of the store
// interfaces. Every store is safe for concurrent use; nothing survives a
// restart.
package memory
