// Package adapter owns the session-server lifecycle of the debug adapter.
//
// Ownership boundary:
// - transport establishment (stdio, connect, listen)
// - the serial accept/serve session loop
// - adapter settings and process configuration
// - crash guard and reproducer lifecycle
//
// Protocol semantics live behind the Runner boundary; this package never
// interprets message payloads.
package adapter
