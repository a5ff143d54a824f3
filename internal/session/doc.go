// Package session hosts the protocol-logic side of a debug session.
//
// The adapter core only spawns the channel pump, hands this package the
// session handle, and awaits completion; everything about message meaning
// lives here, behind the adapter.Runner boundary.
package session
