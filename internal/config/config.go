// Package config loads command configuration from the environment.
// Flags in cmd/ default to these values and override them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Storage backends for the wizard draft.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Server configures the submission sink.
type Server struct {
	Addr       string `env:"SIGNUP_ADDR" envDefault:":8080"`
	HealthAddr string `env:"SIGNUP_HEALTH_ADDR"`
	MaxUpload  int64  `env:"SIGNUP_MAX_UPLOAD" envDefault:"10485760"`
}

// Wizard configures the terminal wizard.
type Wizard struct {
	SinkURL    string `env:"SIGNUP_SINK_URL" envDefault:"http://localhost:8080/api/submit"`
	Storage    string `env:"SIGNUP_STORAGE" envDefault:"file"`
	DataDir    string `env:"SIGNUP_DATA_DIR"`
	Seal       bool   `env:"SIGNUP_SEAL" envDefault:"true"`
	Passphrase string `env:"SIGNUP_PASSPHRASE"`
	Debug      bool   `env:"SIGNUP_DEBUG"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer reads Server from the environment.
func LoadServer() (Server, error) {
	var c Server
	err := ParseEnv(&c)
	return c, err
}

// LoadWizard reads Wizard from the environment and fills DataDir.
func LoadWizard() (Wizard, error) {
	var c Wizard
	if err := ParseEnv(&c); err != nil {
		return c, err
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	return c, nil
}

// Validate checks values flags may have overridden.
func (c Wizard) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q (want file, sqlite or memory)", c.Storage)
	}
	if c.SinkURL == "" {
		return fmt.Errorf("empty sink url")
	}
	if c.Storage != StorageMemory && c.DataDir == "" {
		return fmt.Errorf("empty data dir")
	}
	return nil
}

// Validate checks values flags may have overridden.
func (c Server) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("empty listen address")
	}
	if c.MaxUpload <= 0 {
		return fmt.Errorf("max upload must be positive, got %d", c.MaxUpload)
	}
	return nil
}

// DebugLogPath is where the wizard writes its debug log, or "" when debug
// logging is off.
func (c Wizard) DebugLogPath() string {
	if !c.Debug || c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, "debug.log")
}

// DefaultDataDir is $XDG_CONFIG_HOME/signup-wizard or ~/.config/signup-wizard.
func DefaultDataDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "signup-wizard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "signup-wizard")
}
