// Package main is the newsprobe CLI entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/newsprobe/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/newsprobe/config.yaml"

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	debug      bool
}

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing default config means built-in defaults. .env files and NEWSPROBE_*
// variables are applied on top. Returns the config and the path that was loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, "", err
	}
	resolved := path
	var cfg *config.Config
	var err error
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			local := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(local); statErr == nil {
				resolved = local
			}
		}
		cfg, err = config.LoadOrDefault(resolved)
	} else {
		cfg, err = config.Load(resolved)
	}
	if err != nil {
		return nil, "", err
	}
	if err := config.ApplyEnv(cfg, nil); err != nil {
		return nil, "", err
	}
	return cfg, resolved, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "newsprobe",
		Short: "Ranked news search with AI-likelihood scores",
		Long: "newsprobe queries a news retrieval service and shows ranked articles with BM25,\n" +
			"cosine and AI-likelihood scores. It serves a landing page with a live demo and\n" +
			"falls back to built-in example results when the service is unavailable.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "config file path")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsprobe version %s\n", version)
		},
	})
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
