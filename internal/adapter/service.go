package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/calleva/dapd/internal/engine"
	"github.com/calleva/dapd/internal/protocol/channel"
	"github.com/calleva/dapd/internal/script"
)

// EnvStartupCommand names an optional command executed through the engine
// command interpreter right after engine creation.
const EnvStartupCommand = "DAPD_STARTUP"

// Runner is the session-logic collaborator. Run drives one client session
// over the channel until the protocol dialogue completes; the service treats
// the session as finished when Run returns, irrespective of its outcome.
type Runner interface {
	Run(ctx context.Context, ch *channel.Channel, settings Settings, interp *script.Interpreter) error
}

// Service serves debug sessions serially over the configured transport. The
// engine is a process-wide singleton, so at most one session is ever alive;
// the serial loop makes that structural rather than lock-enforced.
type Service struct {
	cfg      Config
	settings Settings
	eng      engine.Engine
	runner   Runner
	rep      *Reproducer
	interp   *script.Interpreter
}

func New(cfg Config, settings Settings, eng engine.Engine, runner Runner) *Service {
	return &Service{
		cfg:      cfg,
		settings: settings,
		eng:      eng,
		runner:   runner,
		rep:      NewReproducer(eng),
	}
}

// Reproducer exposes the process-wide reproducer controller, shared with the
// crash guard.
func (s *Service) Reproducer() *Reproducer {
	return s.rep
}

// Run is the adapter process entrypoint: it installs the crash guard, brings
// the engine up, serves sessions per the configured mode, and walks the
// normal shutdown path.
func (s *Service) Run(ctx context.Context) error {
	HookCrashes(s.rep)
	if err := s.bootstrap(); err != nil {
		return err
	}
	err := s.serve(ctx)
	s.rep.Finalize()
	s.eng.Terminate()
	log.Debug().Msg("exiting")
	return err
}

func (s *Service) bootstrap() error {
	if s.settings.Reproducer.Enabled {
		s.rep.Initialize(s.settings.Reproducer.Path)
	}
	if err := s.eng.Initialize(); err != nil {
		return fmt.Errorf("adapter: engine initialize: %w", err)
	}
	if err := s.eng.Create(); err != nil {
		return fmt.Errorf("adapter: engine create: %w", err)
	}
	if command := os.Getenv(EnvStartupCommand); command != "" {
		log.Debug().Str("command", command).Msg("executing startup command")
		if err := s.eng.HandleCommand(command); err != nil {
			log.Error().Err(err).Msg("startup command failed")
		}
	}
	s.initScripting()
	return nil
}

func (s *Service) initScripting() {
	dir := s.cfg.ScriptDir
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			log.Error().Err(err).Msg("initialize scripting")
			return
		}
		dir = filepath.Dir(exe)
	}
	interp, err := script.Initialize(s.eng, dir)
	if err != nil {
		log.Error().Err(err).Msg("initialize scripting")
		return
	}
	s.interp = interp
}

func (s *Service) serve(ctx context.Context) error {
	switch s.cfg.Mode {
	case ModeConnect:
		return s.connect(ctx)
	case ModeListen:
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.cfg.Port))
		if err != nil {
			return fmt.Errorf("adapter: bind port %d: %w", s.cfg.Port, err)
		}
		defer ln.Close()
		return s.Serve(ctx, ln)
	default:
		log.Debug().Msg("starting on stdio")
		s.serveStream(ctx, newStdioStream())
		return nil
	}
}

func (s *Service) connect(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.cfg.Port)
	log.Debug().Str("addr", addr).Msg("connecting")
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("adapter: connect %s: %w", addr, err)
	}
	conn.(*net.TCPConn).SetNoDelay(true)
	if s.cfg.AuthToken != "" {
		// The preamble must hit the wire before the first frame byte.
		if _, err := fmt.Fprintf(conn, "Auth-Token: %s\r\n", s.cfg.AuthToken); err != nil {
			conn.Close()
			return fmt.Errorf("adapter: auth preamble: %w", err)
		}
	}
	s.serveStream(ctx, conn)
	return nil
}

// Serve runs the accept loop on an established listener: accept one
// connection, serve its session to completion, then either loop (multi
// session) or stop after the first. Sessions never overlap.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	// Scoped so the watcher goroutine exits with the loop, not the process.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		log.Info().Str("addr", ln.Addr().String()).Msg("listening")
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("adapter: accept: %w", err)
		}
		if tcp, ok := conn.(*net.TCPConn); ok {
			tcp.SetNoDelay(true)
		}
		s.serveStream(ctx, conn)
		if !s.cfg.MultiSession {
			return nil
		}
	}
}

// serveStream binds one connection to one session: split the framed stream,
// run the pump concurrently with session logic, await the session, then tear
// the pump down. Per-connection failures end only this session.
func (s *Service) serveStream(ctx context.Context, stream io.ReadWriteCloser) {
	log.Debug().Msg("new debug session")
	ch, pump := channel.Split(stream)
	pumpErr := make(chan error, 1)
	go func() {
		pumpErr <- pump()
	}()

	if err := s.runner.Run(ctx, ch, s.settings, s.interp); err != nil {
		log.Warn().Err(err).Msg("session ended with error")
	}
	ch.Close()
	if err := <-pumpErr; err != nil {
		log.Debug().Err(err).Msg("pump stopped")
	}
	log.Debug().Msg("end of debug session")
}
