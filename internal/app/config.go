package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // .hcl file or directory
	Demo       bool   // use the built-in demo graph instead of ConfigPath

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Ticks bounds the host loop. Zero runs until the graph is idle, or until
	// the context ends when an editor is attached.
	Ticks int

	// ExportPath and ExportFormat override the export block of the loaded
	// configuration when set.
	ExportPath   string
	ExportFormat string

	// EditorURL attaches a remote editor, overriding the editor block.
	EditorURL string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" && !cfg.Demo {
		return nil, errors.New("ConfigPath is a required configuration field unless Demo is set")
	}
	if cfg.ConfigPath != "" && cfg.Demo {
		return nil, errors.New("ConfigPath and Demo are mutually exclusive")
	}
	if cfg.Ticks < 0 {
		return nil, fmt.Errorf("Ticks must not be negative, got %d", cfg.Ticks)
	}
	return &cfg, nil
}
