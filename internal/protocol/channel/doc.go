// Package channel owns the framed-connection split between the message pump
// and session logic.
//
// Ownership boundary:
// - bounded inbound/outbound frame queues
// - the pump unit that binds the queues to the underlying stream
// - explicit session-completion shutdown signaling
package channel
