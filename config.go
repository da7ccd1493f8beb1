package packrattle

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EngineOptions is the on-disk configuration for tools that embed
// packrattle (cmd/grammartool loads one of these via --config). The
// library reads a config file only when a caller passes its path to
// LoadEngineOptions; otherwise it just exposes the struct and the logger
// wiring a caller applies from it.
type EngineOptions struct {
	Verbose  bool   `yaml:"verbose"`
	LogLevel string `yaml:"logLevel"`

	// MaxSteps bounds how many work-queue steps a single Execute call may
	// run before it aborts with a GrammarDefectError, guarding against a
	// runaway grammar the same way the teacher's callstack-depth limit
	// guards against runaway recursion. 0 means unlimited.
	MaxSteps int `yaml:"maxSteps"`
}

// LoadEngineOptions reads and parses a YAML config file.
func LoadEngineOptions(path string) (*EngineOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var opts EngineOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &opts, nil
}

// ApplyLogging installs a console logger at the level these options ask
// for, becoming the logger every subsequent Execute call uses.
func (o *EngineOptions) ApplyLogging() {
	level := zerolog.InfoLevel
	switch {
	case o.LogLevel != "":
		if lv, err := zerolog.ParseLevel(o.LogLevel); err == nil {
			level = lv
		}
	case o.Verbose:
		level = zerolog.DebugLevel
	}
	SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).
		Level(level).
		With().
		Timestamp().
		Logger())
}

// Apply installs both this options value's logging and its MaxSteps
// bound, so every subsequent Execute call on any Parser picks them up.
func (o *EngineOptions) Apply() {
	o.ApplyLogging()
	SetMaxSteps(o.MaxSteps)
}
