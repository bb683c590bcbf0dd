package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Score is an optional real-valued signal. The retrieval pipeline may omit a
// score or send something unusable; such values decode as invalid instead of
// failing the whole response.
type Score struct {
	Value float64
	Valid bool
}

// NewScore returns a valid score for finite v and an invalid one otherwise.
func NewScore(v float64) Score {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Score{}
	}
	return Score{Value: v, Valid: true}
}

// Unknown is the absent score.
func Unknown() Score { return Score{} }

// Finite returns the value and whether it is present and finite.
func (s Score) Finite() (float64, bool) {
	if !s.Valid || math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return 0, false
	}
	return s.Value, true
}

// MarshalJSON writes the value as a number, or null when unknown.
func (s Score) MarshalJSON() ([]byte, error) {
	v, ok := s.Finite()
	if !ok {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else leaves the
// score unknown without returning an error.
func (s *Score) UnmarshalJSON(data []byte) error {
	*s = Score{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(str))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	*s = NewScore(v)
	return nil
}
