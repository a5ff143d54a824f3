package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/calleva/dapd/internal/engine"
)

var ErrMissingInstallDir = errors.New("script: install directory not found")

// bootstrapScript must exist under the install directory for the scripting
// capability to come up.
const bootstrapScript = "dapd_init.py"

// Interpreter is the scripting capability handed to session logic. A nil
// Interpreter means scripting is unavailable.
type Interpreter struct {
	eng        engine.Engine
	installDir string
}

// Initialize boots the scripting subsystem against the engine. The install
// directory normally sits next to the adapter executable.
func Initialize(eng engine.Engine, installDir string) (*Interpreter, error) {
	info, err := os.Stat(installDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrMissingInstallDir, installDir)
	}
	boot := filepath.Join(installDir, bootstrapScript)
	if _, err := os.Stat(boot); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingInstallDir, boot)
	}
	if err := eng.HandleCommand("command script import " + boot); err != nil {
		return nil, fmt.Errorf("script: bootstrap: %w", err)
	}
	log.Debug().Str("dir", installDir).Msg("scripting initialized")
	return &Interpreter{eng: eng, installDir: installDir}, nil
}

// InstallDir reports where the scripting runtime was loaded from.
func (i *Interpreter) InstallDir() string {
	return i.installDir
}

// Run executes one script command through the engine interpreter.
func (i *Interpreter) Run(command string) error {
	return i.eng.HandleCommand("script " + command)
}
