package render

import (
	"fmt"
	"math"

	"github.com/hyperjump/newsprobe/internal/models"
)

// Band classifies an AI-likelihood score. Bands are closed below and open above.
type Band string

const (
	BandUnknown Band = "unknown"
	BandLow     Band = "low"
	BandMedium  Band = "medium"
	BandHigh    Band = "high"
)

const (
	mediumFrom = 0.35
	highFrom   = 0.65
)

// AIBand returns the band of s: low below 0.35, medium below 0.65, high from
// 0.65 up, unknown when s is absent or non-finite.
func AIBand(s models.Score) Band {
	v, ok := s.Finite()
	switch {
	case !ok:
		return BandUnknown
	case v < mediumFrom:
		return BandLow
	case v < highFrom:
		return BandMedium
	default:
		return BandHigh
	}
}

// Class returns the CSS class for the band's badge.
func (b Band) Class() string {
	switch b {
	case BandLow:
		return "badge-low"
	case BandMedium:
		return "badge-medium"
	case BandHigh:
		return "badge-high"
	default:
		return "badge-unknown"
	}
}

// Label is a short human-readable band name.
func (b Band) Label() string {
	switch b {
	case BandLow:
		return "likely human"
	case BandMedium:
		return "uncertain"
	case BandHigh:
		return "likely AI"
	default:
		return "not scored"
	}
}

// AIPercent formats s as a whole percentage, or an en dash when unknown.
func AIPercent(s models.Score) string {
	v, ok := s.Finite()
	if !ok {
		return "–"
	}
	return fmt.Sprintf("%.0f%%", math.Round(v*100))
}
