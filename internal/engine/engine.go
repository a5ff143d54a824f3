package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotInitialized = errors.New("engine: not initialized")
	ErrNoCapture      = errors.New("engine: reproducer capture not active")
)

// Engine is the debugging engine the adapter drives on behalf of the client.
// Outside of session logic, only the adapter lifecycle, the crash guard, and
// the reproducer controller call this surface.
type Engine interface {
	// Initialize prepares the engine library. Must be called once, before
	// Create.
	Initialize() error

	// Create instantiates the debugger instance sessions will drive.
	Create() error

	// Terminate releases the engine on the normal shutdown path. Never called
	// from the crash path.
	Terminate()

	// HandleCommand executes one line through the engine's command
	// interpreter.
	HandleCommand(command string) error

	// CaptureReproducer starts deterministic capture of all engine
	// interactions. An empty path selects the engine default location.
	CaptureReproducer(path string) error

	// ReproducerPath reports where the capture artifact will materialize.
	ReproducerPath() (string, bool)

	// GenerateReproducer materializes the captured artifact. Safe to call
	// with the engine in an undefined state: it relies only on capture
	// state already recorded.
	GenerateReproducer() bool
}

// defaultReproducerPath is where capture lands when no path is configured.
func defaultReproducerPath() string {
	return filepath.Join(xdg.StateHome, "dapd", "reproducer")
}

// nullEngine is the stand-in used when no real engine is linked into the
// build. It accepts the full surface and records a command transcript, which
// doubles as the reproducer artifact.
type nullEngine struct {
	mu          sync.Mutex
	initialized bool
	created     bool
	transcript  []string
	capturePath string
	capturing   bool
}

// New returns the process-wide engine implementation.
func New() Engine {
	return &nullEngine{}
}

func (e *nullEngine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = true
	return nil
}

func (e *nullEngine) Create() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return ErrNotInitialized
	}
	e.created = true
	return nil
}

func (e *nullEngine) Terminate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = false
	e.initialized = false
}

func (e *nullEngine) HandleCommand(command string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.created {
		return ErrNotInitialized
	}
	command = strings.TrimSpace(command)
	e.transcript = append(e.transcript, command)
	log.Debug().Str("command", command).Msg("engine command")
	return nil
}

func (e *nullEngine) CaptureReproducer(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if path == "" {
		path = defaultReproducerPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("engine: reproducer capture: %w", err)
	}
	e.capturePath = path
	e.capturing = true
	return nil
}

func (e *nullEngine) ReproducerPath() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.capturing {
		return "", false
	}
	return e.capturePath, true
}

func (e *nullEngine) GenerateReproducer() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.capturing {
		return false
	}
	data := strings.Join(e.transcript, "\n") + "\n"
	if err := os.WriteFile(e.capturePath, []byte(data), 0o644); err != nil {
		log.Error().Err(err).Str("path", e.capturePath).Msg("reproducer write failed")
		return false
	}
	return true
}
