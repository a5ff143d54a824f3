// Package internal carries build-time identity for the dapd binary.
package internal

// Overridden at build time via -ldflags.
var (
	Name    = "dapd"
	Version = "dev"
	Commit  = ""
)

func VersionString() string {
	if Commit != "" {
		return Version + "+" + Commit
	}
	return Version
}
