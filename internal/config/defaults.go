package config

import (
	"slices"
	"time"

	"github.com/hyperjump/newsprobe/internal/models"
)

const (
	DefaultHistoryPath = "/usr/local/var/newsprobe/data/history.db"
	DefaultTimeout     = 5 * time.Second
	DefaultMaxSessions = 1024
	DefaultIdleTTL     = 30 * time.Minute
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Retrieval.Timeout <= 0 {
		cfg.Retrieval.Timeout = DefaultTimeout
	}
	cfg.Retrieval.DefaultLimit = models.ClampLimit(cfg.Retrieval.DefaultLimit)
	if cfg.Retrieval.DefaultModel == "" {
		cfg.Retrieval.DefaultModel = models.DefaultModel
	}
	if !slices.Contains(cfg.Retrieval.Models, cfg.Retrieval.DefaultModel) {
		cfg.Retrieval.Models = append([]string{cfg.Retrieval.DefaultModel}, cfg.Retrieval.Models...)
	}
	if cfg.Storage.HistoryPath == "" {
		cfg.Storage.HistoryPath = DefaultHistoryPath
	}
	if cfg.Sessions.MaxSessions <= 0 {
		cfg.Sessions.MaxSessions = DefaultMaxSessions
	}
	if cfg.Sessions.IdleTTL <= 0 {
		cfg.Sessions.IdleTTL = DefaultIdleTTL
	}
}
