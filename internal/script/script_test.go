package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/calleva/dapd/internal/engine/enginetest"
)

func installDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, bootstrapScript), []byte("# dapd bootstrap\n"), 0o644); err != nil {
		t.Fatalf("write bootstrap: %v", err)
	}
	return dir
}

func TestInitializeLoadsBootstrap(t *testing.T) {
	dir := installDir(t)
	eng := enginetest.NewRecorder()
	interp, err := Initialize(eng, dir)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	want := "command script import " + filepath.Join(dir, bootstrapScript)
	if len(eng.Commands) != 1 || eng.Commands[0] != want {
		t.Fatalf("bootstrap command: %v", eng.Commands)
	}
	if interp.InstallDir() != dir {
		t.Fatalf("install dir: %q", interp.InstallDir())
	}
	if err := interp.Run("print('ok')"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if eng.Commands[1] != "script print('ok')" {
		t.Fatalf("script command: %v", eng.Commands)
	}
}

func TestInitializeMissingDir(t *testing.T) {
	eng := enginetest.NewRecorder()
	if _, err := Initialize(eng, filepath.Join(t.TempDir(), "absent")); !errors.Is(err, ErrMissingInstallDir) {
		t.Fatalf("expected ErrMissingInstallDir, got %v", err)
	}
}

func TestInitializeMissingBootstrapScript(t *testing.T) {
	eng := enginetest.NewRecorder()
	if _, err := Initialize(eng, t.TempDir()); !errors.Is(err, ErrMissingInstallDir) {
		t.Fatalf("expected ErrMissingInstallDir, got %v", err)
	}
	if len(eng.Commands) != 0 {
		t.Fatalf("engine must stay untouched on failed init: %v", eng.Commands)
	}
}
