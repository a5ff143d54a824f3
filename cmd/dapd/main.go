package main

import (
	"fmt"
	"os"

	"github.com/calleva/dapd/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dapd: %v\n", err)
		os.Exit(1)
	}
}
