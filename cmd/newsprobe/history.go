package main

import (
	"github.com/hyperjump/newsprobe/internal/cli"
	"github.com/hyperjump/newsprobe/internal/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int
	var output string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			cfg, _, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			store, err := history.NewSQLiteStore(cfg.Storage.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return cli.WriteHistory(cmd.OutOrStdout(), entries, format)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}
