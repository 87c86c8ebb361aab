package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robknight/pod2-prover/internal/engine"
)

// Config is the prover configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig holds deduction engine limits. Durations are strings so
// the YAML reads naturally ("30s", "2m").
type EngineConfig struct {
	FactLimit    int    `yaml:"fact_limit"`
	QueryTimeout string `yaml:"query_timeout"`
}

// StoreConfig holds fact persistence settings.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			FactLimit:    100000,
			QueryTimeout: "30s",
		},
		Store: StoreConfig{
			DatabasePath: "data/facts.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides applies POD2_* environment variables on top of the
// file configuration.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("POD2_FACT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.FactLimit = n
		}
	}
	if v := os.Getenv("POD2_QUERY_TIMEOUT"); v != "" {
		c.Engine.QueryTimeout = v
	}
	if v := os.Getenv("POD2_DATABASE_PATH"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("POD2_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Engine.FactLimit <= 0 {
		return fmt.Errorf("engine.fact_limit must be positive, got %d", c.Engine.FactLimit)
	}
	if _, err := time.ParseDuration(c.Engine.QueryTimeout); err != nil {
		return fmt.Errorf("engine.query_timeout: %w", err)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

// EngineLimits converts the file settings into engine limits.
func (c *Config) EngineLimits() engine.Config {
	timeout, err := time.ParseDuration(c.Engine.QueryTimeout)
	if err != nil {
		timeout = 0
	}
	return engine.Config{
		FactLimit:    c.Engine.FactLimit,
		QueryTimeout: timeout,
	}
}
