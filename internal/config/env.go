package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables overriding file settings.
const (
	EnvEndpoint     = "NEWSPROBE_ENDPOINT"
	EnvHost         = "NEWSPROBE_HOST"
	EnvPort         = "NEWSPROBE_PORT"
	EnvDebug        = "NEWSPROBE_DEBUG"
	EnvTimeout      = "NEWSPROBE_TIMEOUT"
	EnvHistoryPath  = "NEWSPROBE_HISTORY_PATH"
	EnvFallbackPath = "NEWSPROBE_FALLBACK_PATH"
)

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment. Variables that are already set win. Missing files
// are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with NEWSPROBE_* variables read through lookup
// (os.LookupEnv when nil). Malformed values are reported and leave the
// setting unchanged.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var errs []error

	if v, ok := lookup(EnvEndpoint); ok {
		cfg.Retrieval.Endpoint = v
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		cfg.Server.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s: invalid port %q", EnvPort, v))
		} else {
			cfg.Server.Port = port
		}
	}
	if v, ok := lookup(EnvDebug); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvDebug, err))
		} else {
			cfg.Debug = debug
		}
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", EnvTimeout, v))
		} else {
			cfg.Retrieval.Timeout = d
		}
	}
	if v, ok := lookup(EnvHistoryPath); ok && v != "" {
		cfg.Storage.HistoryPath = v
	}
	if v, ok := lookup(EnvFallbackPath); ok {
		cfg.Fallback.DatasetPath = v
	}
	return errors.Join(errs...)
}
