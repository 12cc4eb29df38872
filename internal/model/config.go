package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Environment variables that override the assistant configuration.
// The API key is deliberately never read from the config file.
const (
	EnvAssistantEndpoint = "TASKPAD_ASSISTANT_ENDPOINT"
	EnvAssistantKey      = "TASKPAD_ASSISTANT_KEY"
)

// Storage backend identifiers.
const (
	StorageBackendSQLite = "sqlite"
	StorageBackendFile   = "file"
)

// AssistantConfig holds settings for the assistant integration.
type AssistantConfig struct {
	// Endpoint is the chat-completions URL the bridge posts to.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// MaxTokens caps the answer length requested from the service.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature sent with each request.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`

	// TimeoutSec bounds the whole HTTP round trip. Zero means the
	// default of 30 seconds; the bridge never waits unbounded.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Assistant AssistantConfig `mapstructure:"assistant" yaml:"assistant"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/taskpad/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskpad", "config.yaml")
}

// DefaultStoragePath returns the default location of the task database.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "tasks.db")
	}
	return filepath.Join(home, ".config", "taskpad", "tasks.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Assistant: AssistantConfig{
			MaxTokens:   150,
			Temperature: 0.7,
			TimeoutSec:  30,
		},
		Storage: StorageConfig{
			Backend: StorageBackendSQLite,
			Path:    DefaultStoragePath(),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns a default
// configuration. TASKPAD_ASSISTANT_ENDPOINT, when set, overrides the
// endpoint from the file.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("assistant.max_tokens", 150)
	v.SetDefault("assistant.temperature", 0.7)
	v.SetDefault("assistant.timeout_sec", 30)
	v.SetDefault("storage.backend", StorageBackendSQLite)
	v.SetDefault("storage.path", DefaultStoragePath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return applyEnv(defaultAppConfig()), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return applyEnv(defaultAppConfig()), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return applyEnv(cfg), nil
}

// applyEnv overlays environment overrides onto a loaded configuration.
func applyEnv(cfg *AppConfig) *AppConfig {
	if ep := os.Getenv(EnvAssistantEndpoint); ep != "" {
		cfg.Assistant.Endpoint = ep
	}
	return cfg
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("assistant", cfg.Assistant)
	v.Set("storage", cfg.Storage)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
