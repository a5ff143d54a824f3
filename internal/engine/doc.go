// Package engine owns the boundary to the process-wide debugging engine.
//
// Ownership boundary:
// - the Engine interface consumed by the adapter lifecycle
// - reproducer capture surface
// - the in-process null engine used when no real engine is linked
//
// The engine is a process-wide singleton; the adapter guarantees at most one
// live session drives it at a time, so no locking is required around engine
// calls made from session logic.
package engine
