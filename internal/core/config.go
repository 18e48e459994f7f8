package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/jo-hoe/peoplesearch/internal/backend/database"
)

// EnvPrefix is prepended to every environment override, e.g. PEOPLESEARCH_PORT.
const EnvPrefix = "PEOPLESEARCH_"

type Database struct {
	Type             string `yaml:"type" env:"TYPE"`
	ConnectionString string `yaml:"connectionString" env:"CONNECTION_STRING"`
}

type Metrics struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

type ServiceConfig struct {
	Port     int      `yaml:"port" env:"PORT"`
	LogLevel string   `yaml:"logLevel" env:"LOG_LEVEL"`
	Seed     bool     `yaml:"seed" env:"SEED"`
	Database Database `yaml:"database" envPrefix:"DATABASE_"`
	Metrics  Metrics  `yaml:"metrics" envPrefix:"METRICS_"`
}

// DefaultConfig is used for every value the config file and environment leave unset.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:     8080,
		LogLevel: "info",
		Seed:     true,
		Database: Database{
			Type:             database.TypeSQLite,
			ConnectionString: "peoplesearch.db",
		},
		Metrics: Metrics{Enabled: true},
	}
}

// LoadConfig loads configuration from the specified YAML file and applies
// PEOPLESEARCH_* environment overrides on top. A missing file is not an error.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("config file not found, using defaults", "path", configPath)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (c *ServiceConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.Database.Type {
	case database.TypeSQLite, database.TypePostgres, database.TypeRedis:
	default:
		return fmt.Errorf("unsupported database type: %q", c.Database.Type)
	}
	if strings.TrimSpace(c.Database.ConnectionString) == "" {
		return errors.New("database connection string is empty")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to their slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %q", level)
}
