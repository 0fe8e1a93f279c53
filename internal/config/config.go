package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Documents DocumentsConfig `yaml:"documents"`
	Export    ExportConfig    `yaml:"export"`
	Backup    BackupConfig    `yaml:"backup"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	APIKey string `yaml:"-"` // env-only, never in YAML
}

// GatewayConfig contains LLM chat gateway settings. These are server-side
// defaults; per-user chat settings stored in the workspace override them.
type GatewayConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"-"` // env-only, never in YAML
}

// DocumentsConfig contains document backend settings.
type DocumentsConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ExportConfig contains export adapter settings.
type ExportConfig struct {
	// FontSources are tried in order when rendering PDF: local file paths
	// or http(s) URLs to a TTF with Cyrillic coverage.
	FontSources []string `yaml:"font_sources"`
}

// BackupConfig contains S3-compatible backup storage settings.
// An empty bucket disables backups.
type BackupConfig struct {
	Bucket    string   `yaml:"bucket"`
	Endpoint  string   `yaml:"endpoint"`
	AccessKey string   `yaml:"-"` // env-only, never in YAML
	SecretKey string   `yaml:"-"` // env-only, never in YAML
	Region    string   `yaml:"region"`
	UseSSL    *bool    `yaml:"use_ssl"`
	Interval  Duration `yaml:"interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("CASCADE_CONFIG_PATH", "config/cascade.yaml")

	// Missing file is not an error; defaults apply
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadForTooling loads configuration for offline CLI commands. Server-side
// requirements (API keys, backup credentials) are not enforced.
func LoadForTooling() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("CASCADE_CONFIG_PATH", "config/cascade.yaml")

	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	useSSL := true
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Path: "data/cascade.db",
		},
		Documents: DocumentsConfig{
			BaseURL: "http://localhost:8000",
		},
		Export: ExportConfig{
			FontSources: []string{
				"fonts/Roboto-Regular.ttf",
				"https://cdn.jsdelivr.net/gh/google/fonts@main/apache/roboto/Static/Roboto-Regular.ttf",
			},
		},
		Backup: BackupConfig{
			Region:   "us-east-1",
			UseSSL:   &useSSL,
			Interval: Duration(1 * time.Hour),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("CASCADE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CASCADE_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("CASCADE_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("CASCADE_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}

	// Database
	if v := os.Getenv("CASCADE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Auth
	if v := os.Getenv("CASCADE_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}

	// Gateway
	if v := os.Getenv("CASCADE_GATEWAY_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("CASCADE_GATEWAY_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}

	// Documents backend
	if v := os.Getenv("CASCADE_DOCUMENTS_URL"); v != "" {
		cfg.Documents.BaseURL = v
	}

	// Backup storage
	if v := os.Getenv("CASCADE_BACKUP_BUCKET"); v != "" {
		cfg.Backup.Bucket = v
	}
	if v := os.Getenv("CASCADE_BACKUP_ENDPOINT"); v != "" {
		cfg.Backup.Endpoint = v
	}
	if v := os.Getenv("CASCADE_BACKUP_ACCESS_KEY"); v != "" {
		cfg.Backup.AccessKey = v
	}
	if v := os.Getenv("CASCADE_BACKUP_SECRET_KEY"); v != "" {
		cfg.Backup.SecretKey = v
	}
	if v := os.Getenv("CASCADE_BACKUP_REGION"); v != "" {
		cfg.Backup.Region = v
	}
	if v := os.Getenv("CASCADE_BACKUP_USE_SSL"); v != "" {
		useSSL := v == "true" || v == "1"
		cfg.Backup.UseSSL = &useSSL
	}
	if v := os.Getenv("CASCADE_BACKUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backup.Interval = Duration(d)
		}
	}

	// Log
	if v := os.Getenv("CASCADE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CASCADE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// validate checks that required configuration values are set.
// In dev mode (CASCADE_DEV_MODE=true), API key validation is skipped.
func (c *Config) validate() error {
	if os.Getenv("CASCADE_DEV_MODE") == "true" {
		return nil
	}

	if c.Auth.APIKey == "" {
		return errors.New("CASCADE_API_KEY is required")
	}
	if c.Backup.Bucket != "" {
		if c.Backup.Endpoint == "" {
			return errors.New("backup.endpoint is required when a backup bucket is set")
		}
		if c.Backup.AccessKey == "" || c.Backup.SecretKey == "" {
			return errors.New("CASCADE_BACKUP_ACCESS_KEY and CASCADE_BACKUP_SECRET_KEY are required when a backup bucket is set")
		}
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
