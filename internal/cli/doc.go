// Package cli owns command-line parsing and process wiring for dapd.
package cli
