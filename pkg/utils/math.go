package utils

import "math"

// Clamp limits v to [lo, hi]. NaN is returned unchanged.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
