package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/calleva/dapd/internal"
	"github.com/calleva/dapd/internal/logging"
)

// Represents the root command for the dapd session server.
var RootCmd struct {
	Port         *int   `help:"Listen for a client on the given loopback TCP port; 0 picks an ephemeral port." placeholder:"PORT"`
	Connect      *int   `help:"Connect out to a client listening on the given loopback TCP port." placeholder:"PORT"`
	MultiSession *bool  `help:"Keep serving new connections after a session ends (listen mode only)."`
	AuthToken    string `help:"Token written as an Auth-Token preamble before the first frame (connect mode only)." placeholder:"TOKEN"`
	Settings     string `help:"Adapter settings as a JSON object." placeholder:"JSON"`
	Config       string `help:"Override the default configuration file path." placeholder:"PATH"`
	LogLevel     string `help:"Log level (trace, debug, info, warn, error)." placeholder:"LEVEL"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve debug sessions (default)."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Debug adapter session server.\n\nServes one protocol client at a time over stdio or a loopback TCP port and drives the debugging engine on its behalf."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	logging.ConfigureRuntime()

	return kongCtx.Run()
}
