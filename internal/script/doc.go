// Package script owns the optional scripting-subsystem boundary.
//
// Initialization failure degrades gracefully: the scripting capability is
// simply absent for the rest of the process lifetime.
package script
