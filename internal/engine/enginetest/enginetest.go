// Package enginetest provides a recording engine fake for adapter tests.
package enginetest

import (
	"sync"

	"github.com/calleva/dapd/internal/engine"
)

// Recorder implements engine.Engine and counts every call so tests can assert
// lifecycle and reproducer laws.
type Recorder struct {
	mu sync.Mutex

	InitializeErr error
	CreateErr     error
	CaptureErr    error
	GenerateOK    bool
	Path          string

	Initialized int
	Created     int
	Terminated  int
	Commands    []string
	Captures    []string
	PathQueries int
	Generates   int
}

var _ engine.Engine = (*Recorder)(nil)

// NewRecorder returns a Recorder whose reproducer surface succeeds.
func NewRecorder() *Recorder {
	return &Recorder{GenerateOK: true}
}

func (r *Recorder) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Initialized++
	return r.InitializeErr
}

func (r *Recorder) Create() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Created++
	return r.CreateErr
}

func (r *Recorder) Terminate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Terminated++
}

func (r *Recorder) HandleCommand(command string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, command)
	return nil
}

func (r *Recorder) CaptureReproducer(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CaptureErr != nil {
		return r.CaptureErr
	}
	if path == "" {
		path = "recorder-default"
	}
	r.Path = path
	r.Captures = append(r.Captures, path)
	return nil
}

func (r *Recorder) ReproducerPath() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PathQueries++
	if len(r.Captures) == 0 {
		return "", false
	}
	return r.Path, true
}

func (r *Recorder) GenerateReproducer() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Generates++
	return r.GenerateOK
}

// ReproducerCalls reports total reproducer-surface activity, used to assert
// the finalize no-op law.
func (r *Recorder) ReproducerCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Captures) + r.PathQueries + r.Generates
}
