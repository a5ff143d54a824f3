package session

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/calleva/dapd/internal/adapter"
	"github.com/calleva/dapd/internal/protocol/channel"
	"github.com/calleva/dapd/internal/script"
)

// Session is the default adapter.Runner. It owns the protocol dialogue for
// one client connection; the transport layer has already framed the stream
// and keeps pumping it for the session's lifetime.
type Session struct{}

var _ adapter.Runner = Session{}

func New() Session {
	return Session{}
}

// Run consumes inbound messages until the client disconnects or the context
// ends. Message dispatch is delegated to the engine-facing protocol logic;
// a connection-level failure ends only this session.
func (Session) Run(ctx context.Context, ch *channel.Channel, settings adapter.Settings, interp *script.Interpreter) error {
	log.Debug().
		Str("consoleMode", settings.ConsoleMode).
		Bool("scripting", interp != nil).
		Msg("session started")
	for {
		m, err := ch.Recv(ctx)
		if err != nil {
			if errors.Is(err, channel.ErrChannelClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		log.Trace().Int("bytes", len(m.Body)).Msg("request received")
	}
}
