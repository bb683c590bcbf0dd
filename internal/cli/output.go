// Package cli formats session state and dispatch history for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hyperjump/newsprobe/internal/history"
	"github.com/hyperjump/newsprobe/internal/render"
	"github.com/hyperjump/newsprobe/internal/session"
	"github.com/hyperjump/newsprobe/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one line per result.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact or json)", s)
	}
}

// WriteState writes the results visible in state to w in the given format.
// Unknown formats are treated as text.
func WriteState(w io.Writer, state session.State, limit int, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(render.NewDocument(state, limit))
	case OutputCompact:
		return writeCompact(w, render.NewWidget(state, state.Params, limit))
	default:
		return writeText(w, render.NewWidget(state, state.Params, limit))
	}
}

func writeText(w io.Writer, widget render.Widget) error {
	p := widget.Params
	fmt.Fprintf(w, "\nQuery %q (top %d, rerank %s, model %s)\n",
		p.Query, p.Limit, onOff(p.RerankEnabled), p.ModelName)
	if widget.Notice != "" {
		fmt.Fprintf(w, "! %s\n", widget.Notice)
	}
	switch {
	case widget.Idle:
		fmt.Fprintln(w, "\nNo search has run yet.")
		return nil
	case widget.Loading:
		fmt.Fprintln(w, "\nSearching...")
		return nil
	case widget.Empty:
		fmt.Fprintln(w, "\nNo results found.")
		return nil
	}
	fmt.Fprintf(w, "Showing %d of %d results\n\n", len(widget.Cards), widget.Total)
	for _, c := range widget.Cards {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. %s\n", c.Rank, c.Title)
		fmt.Fprintf(w, "   %s • %s\n", c.Source, c.Date)
		fmt.Fprintf(w, "   %s\n", c.URL)
		fmt.Fprintf(w, "\n   %s\n\n", Truncate(c.Snippet, 200))
		for _, b := range []render.Bar{c.Cosine, c.AI, c.BM25} {
			fmt.Fprintf(w, "   %-9s %-20s %s\n", b.Label, meter(b), b.Text)
		}
		fmt.Fprintf(w, "   [%s] %s\n", c.Band.Label(), c.BadgeText)
		fmt.Fprintln(w)
	}
	return nil
}

func writeCompact(w io.Writer, widget render.Widget) error {
	if widget.Notice != "" {
		fmt.Fprintf(w, "# %s\n", widget.Notice)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range widget.Cards {
		fmt.Fprintf(tw, "%d\t%s\tbm25=%s\tcos=%s\tai=%s\t%s\n",
			c.Rank, c.ID, c.BM25Text, c.CosText, c.AIText, TruncateWords(c.Title, 10))
	}
	return tw.Flush()
}

const meterWidth = 20

func meter(b render.Bar) string {
	n := int(b.Width/100*meterWidth + 0.5)
	return strings.Repeat("█", n) + strings.Repeat("░", meterWidth-n)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// WriteHistory writes dispatch history entries, newest first as given.
func WriteHistory(w io.Writer, entries []history.Entry, format OutputFormat) error {
	if format == OutputJSON {
		if entries == nil {
			entries = []history.Entry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tPHASE\tRESULTS\tMS\tQUERY\tOPTIONS")
	for _, e := range entries {
		phase := e.Phase
		if e.Superseded {
			phase += " (superseded)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\ttop=%d rerank=%s model=%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), phase, e.ResultCount, e.DurationMS,
			Truncate(e.Query, 40), e.Limit, onOff(e.Rerank), e.Model)
	}
	return tw.Flush()
}

// Truncate truncates s to maxLen runes and appends "..." if truncated.
func Truncate(s string, maxLen int) string { return utils.Truncate(s, maxLen) }

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string { return utils.TruncateWords(s, maxWords) }
