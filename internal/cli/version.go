package cli

import (
	"fmt"

	"github.com/calleva/dapd/internal"
)

// Represents the 'dapd version' command.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("%s %s\n", internal.Name, internal.VersionString())
	return nil
}
