// Package protocol owns the adapter wire contract and framing primitives.
//
// Ownership boundary:
// - header/payload message framing
// - incremental stream decoding
// - framing error taxonomy
//
// Message payloads are opaque at this layer; interpretation belongs to
// session logic.
package protocol
