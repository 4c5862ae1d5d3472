// Package config loads the bank bot configuration.
package config

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/bankbot/core/config"
	coredatabase "github.com/m3rciful/bankbot/core/database"
	"github.com/m3rciful/bankbot/internal/rates"
)

// HTTPConfig configures the read-only REST surface. An empty Listen disables it.
type HTTPConfig struct {
	Listen         string   `yaml:"listen" envconfig:"HTTP_LISTEN"`
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"HTTP_ALLOWED_ORIGINS"`
}

// Config is the full bot configuration: the shared core settings plus the
// bank specific sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Rates    rates.Config        `yaml:"rates"`
	HTTP     HTTPConfig          `yaml:"http"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads path, overlays the environment and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	db := &cfg.Database
	if strings.TrimSpace(db.Host) == "" {
		return fmt.Errorf("database.host is required")
	}
	if strings.TrimSpace(db.Name) == "" {
		return fmt.Errorf("database.name is required")
	}
	if db.Port == "" {
		db.Port = "5432"
	}
	if db.SSLMode == "" {
		db.SSLMode = "disable"
	}
	if db.MaxConnections <= 0 {
		db.MaxConnections = 10
	}

	if cfg.Rates.BaseURL == "" {
		cfg.Rates.BaseURL = rates.DefaultBaseURL
	}
	if cfg.Rates.Timeout < 0 {
		return fmt.Errorf("rates.timeout must be >= 0")
	}

	cfg.HTTP.Listen = strings.TrimSpace(cfg.HTTP.Listen)
	return nil
}
