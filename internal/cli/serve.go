package cli

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/calleva/dapd/internal/adapter"
	"github.com/calleva/dapd/internal/engine"
	"github.com/calleva/dapd/internal/logging"
	"github.com/calleva/dapd/internal/session"
)

// Represents the 'dapd serve' command.
type ServeCmd struct{}

// Executes the serve command: resolve configuration, construct the adapter
// service, and block until the transport mode completes or a signal cancels
// the context.
func (c *ServeCmd) Run(ctx context.Context) error {
	path := RootCmd.Config
	if path == "" {
		path = adapter.DefaultConfigPath()
	}
	file, err := adapter.LoadFileConfig(path)
	if err != nil {
		// Malformed configuration is not fatal; fall back to defaults.
		log.Error().Err(err).Msg("invalid configuration file, using defaults")
		file = adapter.FileConfig{}
	}

	levelRaw := RootCmd.LogLevel
	if levelRaw == "" {
		levelRaw = file.LogLevel
	}
	if level, ok := logging.ParseLevel(levelRaw); ok {
		logging.SetLevel(level)
	}

	cfg, err := adapter.Resolve(file, RootCmd.Port, RootCmd.Connect, RootCmd.MultiSession, RootCmd.AuthToken)
	if err != nil {
		return err
	}

	blob := RootCmd.Settings
	if blob == "" {
		blob = file.Settings
	}
	settings := adapter.ParseSettings(blob)

	log.Debug().Stringer("mode", cfg.Mode).Int("port", cfg.Port).Msg("starting")
	svc := adapter.New(cfg, settings, engine.New(), session.New())
	return svc.Run(ctx)
}
