// Package config provides configuration loading and structs for the newsprobe
// server and CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/newsprobe/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Fallback  FallbackConfig  `yaml:"fallback"`
	Storage   StorageConfig   `yaml:"storage"`
	Sessions  SessionsConfig  `yaml:"sessions"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RetrievalConfig holds the search endpoint and default search parameters.
type RetrievalConfig struct {
	// Endpoint is the base URL of the search service; empty means offline.
	Endpoint      string        `yaml:"endpoint"`
	Timeout       time.Duration `yaml:"timeout"`
	DefaultLimit  int           `yaml:"default_limit"`
	DefaultRerank *bool         `yaml:"default_rerank"`
	DefaultModel  string        `yaml:"default_model"`
	Models        []string      `yaml:"models"`
}

// RerankOrDefault returns whether rerank starts enabled; defaults to true when unset.
func (r *RetrievalConfig) RerankOrDefault() bool {
	if r.DefaultRerank != nil {
		return *r.DefaultRerank
	}
	return true
}

// Parameters returns the initial search parameters of a new session.
func (r *RetrievalConfig) Parameters() models.SearchParameters {
	return models.SearchParameters{
		Query:         models.DefaultQuery,
		Limit:         r.DefaultLimit,
		RerankEnabled: r.RerankOrDefault(),
		ModelName:     r.DefaultModel,
	}.Normalize()
}

// FallbackConfig points at an optional file replacing the built-in
// demonstration results.
type FallbackConfig struct {
	DatasetPath string `yaml:"dataset_path"`
	// Watch reloads DatasetPath when it changes on disk.
	Watch bool `yaml:"watch"`
}

// StorageConfig holds paths for persisted data.
type StorageConfig struct {
	HistoryPath string `yaml:"history_path"`
}

// SessionsConfig bounds the per-browser sessions kept by the server.
type SessionsConfig struct {
	MaxSessions int           `yaml:"max_sessions"`
	IdleTTL     time.Duration `yaml:"idle_ttl"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.HistoryPath = expandPath(cfg.Storage.HistoryPath, configDir)
	if cfg.Fallback.DatasetPath != "" {
		cfg.Fallback.DatasetPath = expandPath(cfg.Fallback.DatasetPath, configDir)
	}

	return &cfg, nil
}

// LoadOrDefault loads path, or returns the built-in defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
