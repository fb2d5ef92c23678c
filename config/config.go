package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "STOREFRONT"

// Config store backends
const (
	BackendNocoDB   = "nocodb"
	BackendPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	ConfigStore struct {
		Backend     string `yaml:"backend" validate:"oneof=nocodb postgres"`
		URL         string `yaml:"url"`
		APIKey      string `yaml:"api_key"`
		Table       string `yaml:"table"`
		PostgresDSN string `yaml:"postgres_dsn" validate:"required_if=Backend postgres"`
	} `yaml:"config_store"`
	Chat struct {
		TypingDelayMillis     int `yaml:"typing_delay_ms" validate:"gte=0"`
		RequestTimeoutSeconds int `yaml:"request_timeout_seconds" validate:"gte=0"`
	} `yaml:"chat"`
	LocalState struct {
		Path string `yaml:"path" validate:"required"`
	} `yaml:"local_state"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file" validate:"required"`
	} `yaml:"log"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

// envOverrides are read from STOREFRONT_* variables and win over the file
type envOverrides struct {
	Backend     string `envconfig:"CONFIG_BACKEND"`
	URL         string `envconfig:"CONFIG_NOCODB_URL"`
	APIKey      string `envconfig:"CONFIG_NOCODB_API_KEY"`
	Table       string `envconfig:"CONFIG_NOCODB_ID_TABLE"`
	PostgresDSN string `envconfig:"CONFIG_POSTGRES_DSN"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
}

var validate = validator.New()

// Dir returns the storefront home directory
func Dir() string {
	return filepath.Join(os.Getenv("HOME"), ".storefront")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load loads configuration from path (or the default location), applies environment
// overrides and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.ConfigStore.Backend, env.Backend)
	set(&c.ConfigStore.URL, env.URL)
	set(&c.ConfigStore.APIKey, env.APIKey)
	set(&c.ConfigStore.Table, env.Table)
	set(&c.ConfigStore.PostgresDSN, env.PostgresDSN)
	set(&c.Log.Level, env.LogLevel)
	return nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save saves configuration to path (or the default location)
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.ConfigStore.Backend = BackendNocoDB
	cfg.Chat.TypingDelayMillis = 1500
	cfg.Chat.RequestTimeoutSeconds = 30
	cfg.Log.Level = "info"

	dir := Dir()
	cfg.LocalState.Path = filepath.Join(dir, "state")
	cfg.Log.File = filepath.Join(dir, "storefront.log")

	return cfg
}
