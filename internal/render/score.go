// Package render turns session state into presentation models: score bars,
// AI-likelihood badges, result cards and the demo widget.
package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hyperjump/newsprobe/internal/models"
	"github.com/hyperjump/newsprobe/pkg/utils"
)

// Placeholder is shown instead of a score that is absent or non-finite.
const Placeholder = "-"

// Color tags a score bar.
type Color string

const (
	ColorCosine Color = "emerald"
	ColorAI     Color = "rose"
	ColorBM25   Color = "sky"
)

// Bar is one labelled score bar. Width is a percentage in [0,100].
type Bar struct {
	Label string
	Text  string
	Width float64
	Color Color
	Known bool
}

// WidthCSS returns the width as a CSS percentage with at most one decimal.
func (b Bar) WidthCSS() string {
	return strconv.FormatFloat(math.Round(b.Width*10)/10, 'f', -1, 64) + "%"
}

// ScoreBar renders a score expected in [0,1]. The value is clamped before the
// width is computed; unknown values render the placeholder at zero width.
func ScoreBar(label string, s models.Score, color Color) Bar {
	v, ok := s.Finite()
	if !ok {
		return Bar{Label: label, Text: Placeholder, Color: color}
	}
	return Bar{
		Label: label,
		Text:  fmt.Sprintf("%.2f", v),
		Width: utils.Clamp(v, 0, 1) * 100,
		Color: color,
		Known: true,
	}
}

// BM25Bar renders the unbounded BM25 score on a 0-10 scale: ten or more
// fills the bar.
func BM25Bar(s models.Score) Bar {
	v, ok := s.Finite()
	if !ok {
		return Bar{Label: "BM25", Text: Placeholder, Color: ColorBM25}
	}
	return Bar{
		Label: "BM25",
		Text:  fmt.Sprintf("%.2f", v),
		Width: utils.Clamp(v*10, 0, 100),
		Color: ColorBM25,
		Known: true,
	}
}

// ScoreText formats a score with two decimals, or the placeholder.
func ScoreText(s models.Score) string {
	v, ok := s.Finite()
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", v)
}
