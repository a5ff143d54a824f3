package adapter

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/calleva/dapd/internal/engine"
)

// Reproducer controls deterministic capture of engine interactions. One
// instance exists per process; the capturing flag is the only state shared
// between the runtime and the crash path, so it is an atomic with no other
// synchronization around it.
type Reproducer struct {
	eng       engine.Engine
	capturing atomic.Bool
}

func NewReproducer(eng engine.Engine) *Reproducer {
	return &Reproducer{eng: eng}
}

// Initialize starts capture. Called at most once, before engine creation. An
// empty path selects the engine's default location. Failure leaves capture
// disabled and is not fatal.
func (r *Reproducer) Initialize(path string) {
	if r.capturing.Load() {
		log.Error().Err(ErrAlreadyCapturing).Msg("initialize reproducer")
		return
	}
	if err := r.eng.CaptureReproducer(path); err != nil {
		log.Error().Err(err).Msg("initialize reproducer")
		return
	}
	r.capturing.Store(true)
}

// Capturing reports whether capture is active. Safe from any goroutine,
// including the crash path.
func (r *Reproducer) Capturing() bool {
	return r.capturing.Load()
}

// Finalize materializes the capture artifact. A no-op when capture was never
// enabled. It only consults the atomic flag and the engine's capture-state
// queries, so it stays safe after a fault has left the engine undefined.
func (r *Reproducer) Finalize() {
	if !r.capturing.Load() {
		return
	}
	path, ok := r.eng.ReproducerPath()
	if !ok {
		return
	}
	if r.eng.GenerateReproducer() {
		log.Info().Str("path", path).Msg("reproducer saved")
	} else {
		log.Error().Str("path", path).Msg("finalize reproducer failed")
	}
}
