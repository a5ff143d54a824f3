package adapter

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

// Settings is the immutable per-process settings snapshot handed to every
// session. It is parsed once at startup and shared by reference; nothing
// mutates it afterwards.
type Settings struct {
	EvaluationTimeout          float64          `json:"evaluationTimeout"`
	SummaryTimeout             float64          `json:"summaryTimeout"`
	SuppressMissingSourceFiles bool             `json:"suppressMissingSourceFiles"`
	ConsoleMode                string           `json:"consoleMode"`
	SourceLanguages            []string         `json:"sourceLanguages"`
	Reproducer                 ReproducerOption `json:"reproducer"`
}

// ReproducerOption accepts either a boolean (capture at the engine default
// path) or a string (capture at that path) on the wire.
type ReproducerOption struct {
	Enabled bool
	Path    string
}

func (o *ReproducerOption) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*o = ReproducerOption{Enabled: b}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = ReproducerOption{Enabled: s != "", Path: s}
	return nil
}

func (o ReproducerOption) MarshalJSON() ([]byte, error) {
	if o.Path != "" {
		return json.Marshal(o.Path)
	}
	return json.Marshal(o.Enabled)
}

func DefaultSettings() Settings {
	return Settings{
		EvaluationTimeout: 5,
		SummaryTimeout:    1,
		ConsoleMode:       "commands",
	}
}

// ParseSettings decodes the startup settings blob. A malformed blob is not
// fatal: it logs and falls back to defaults.
func ParseSettings(blob string) Settings {
	settings := DefaultSettings()
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return settings
	}
	if err := json.Unmarshal([]byte(blob), &settings); err != nil {
		log.Error().Err(err).Msg("invalid adapter settings, using defaults")
		return DefaultSettings()
	}
	return settings
}
