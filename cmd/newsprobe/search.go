package main

import (
	"strings"
	"time"

	"github.com/hyperjump/newsprobe/internal/cli"
	"github.com/hyperjump/newsprobe/pkg/utils"
	"github.com/spf13/cobra"
)

// buildSearchQuery joins the positional arguments so multi-word queries work
// with or without quotes.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func newSearchCmd(opts *options) *cobra.Command {
	var (
		endpoint string
		limit    int
		rerank   bool
		model    string
		output   string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "search [flags] <query...>",
		Short: "Search the news service once and print ranked results",
		Long: "Query is all remaining arguments joined by spaces. An empty query searches for \"news\".\n" +
			"When the service cannot be reached the built-in example results are printed with a notice.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			cfg, _, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("endpoint") {
				cfg.Retrieval.Endpoint = endpoint
			}
			if flags.Changed("timeout") {
				cfg.Retrieval.Timeout = timeout
			}
			logger, err := utils.NewCLILogger(cfg.Debug || opts.debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			components, err := initializeComponents(ctx, cfg, logger, false)
			if err != nil {
				return err
			}
			defer components.Close()

			sess := components.NewSession("")
			p := sess.Params()
			p.Query = buildSearchQuery(args)
			if flags.Changed("limit") {
				p.Limit = limit
			}
			if flags.Changed("rerank") {
				p.RerankEnabled = rerank
			}
			if flags.Changed("model") {
				p.ModelName = model
			}
			state := sess.Dispatch(ctx, p)
			return cli.WriteState(cmd.OutOrStdout(), state, sess.Params().Limit, format)
		},
	}
	f := cmd.Flags()
	f.StringVar(&endpoint, "endpoint", "", "search service base URL (overrides config)")
	f.IntVarP(&limit, "limit", "n", 10, "number of results to show (1-20)")
	f.BoolVar(&rerank, "rerank", true, "rerank candidates by semantic similarity")
	f.StringVar(&model, "model", "mpnet", "reranking model")
	f.StringVarP(&output, "output", "o", "text", "output format: text, compact or json")
	f.DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}
