package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Mode selects how the adapter obtains its client connection. Exactly one
// mode is active per process.
type Mode int

const (
	// ModeStdio serves a single session over the process's stdin/stdout.
	ModeStdio Mode = iota
	// ModeConnect dials out to a client listening on loopback.
	ModeConnect
	// ModeListen accepts inbound loopback connections.
	ModeListen
)

func (m Mode) String() string {
	switch m {
	case ModeConnect:
		return "connect"
	case ModeListen:
		return "listen"
	default:
		return "stdio"
	}
}

// Config is the resolved transport configuration for one adapter process.
type Config struct {
	Mode Mode
	// Port is the TCP port to dial (connect) or bind (listen; 0 binds an
	// ephemeral port). Ignored in stdio mode.
	Port int
	// MultiSession keeps the listen loop accepting after a session ends.
	MultiSession bool
	// AuthToken, when set in connect mode, is written as a preamble line
	// before the first frame.
	AuthToken string
	// ScriptDir overrides the scripting install directory; empty means the
	// directory containing the adapter executable.
	ScriptDir string
}

// FileConfig is the optional on-disk process configuration. CLI flags take
// precedence over every field.
type FileConfig struct {
	Port         *int   `toml:"port"`
	Connect      *int   `toml:"connect"`
	MultiSession *bool  `toml:"multi_session"`
	AuthToken    string `toml:"auth_token"`
	Settings     string `toml:"settings"`
	ScriptDir    string `toml:"script_dir"`
	LogLevel     string `toml:"log_level"`
}

// DefaultConfigPath resolves the dapd.toml location under the XDG config
// home.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "dapd", "dapd.toml")
}

// LoadFileConfig reads the configuration file at path. A missing file is not
// an error; a malformed one is, and the caller treats it as non-fatal.
func LoadFileConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if cfg.Port != nil && cfg.Connect != nil {
		return FileConfig{}, fmt.Errorf("config invalid (%s): %w", path, ErrInvalidMode)
	}
	return cfg, nil
}

// Resolve merges the file configuration under explicit flag values and
// produces the transport Config. Flag pointers are nil when unset.
func Resolve(file FileConfig, listenPort, connectPort *int, multiSession *bool, authToken string) (Config, error) {
	// A mode flag on the command line supersedes the file's mode entirely.
	if listenPort == nil && connectPort == nil {
		listenPort = file.Port
		connectPort = file.Connect
	}
	if listenPort != nil && connectPort != nil {
		return Config{}, ErrInvalidMode
	}
	if multiSession == nil {
		multiSession = file.MultiSession
	}
	if authToken == "" {
		authToken = file.AuthToken
	}

	cfg := Config{Mode: ModeStdio, AuthToken: authToken, ScriptDir: file.ScriptDir}
	if multiSession != nil {
		cfg.MultiSession = *multiSession
	}
	switch {
	case connectPort != nil:
		cfg.Mode = ModeConnect
		cfg.Port = *connectPort
	case listenPort != nil:
		cfg.Mode = ModeListen
		cfg.Port = *listenPort
	}
	return cfg, nil
}
