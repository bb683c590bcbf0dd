package fallback

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltin(t *testing.T) {
	d := NewDataset()
	results := d.Results()
	if len(results) != 4 {
		t.Fatalf("builtin dataset: got %d records, want 4", len(results))
	}
	if results[0].ID != "a1" || results[0].Title != "Adventurers Discover Atlantis" {
		t.Errorf("first record: %+v", results[0])
	}
	for _, r := range results {
		for name, s := range map[string]interface{ Finite() (float64, bool) }{
			"bm25": r.BM25Score, "cosine": r.CosineScore, "ai": r.AILikelihood,
		} {
			if _, ok := s.Finite(); !ok {
				t.Errorf("record %s: %s score missing", r.ID, name)
			}
		}
		if r.URL == "" || r.SourceName == "" || r.PublishedDate == "" || r.Snippet == "" {
			t.Errorf("record %s incomplete: %+v", r.ID, r)
		}
	}
	if d.Source() != "builtin" {
		t.Errorf("source: got %s", d.Source())
	}
}

func TestDataset_ResultsAreCopies(t *testing.T) {
	d := NewDataset()
	first := d.Results()
	first[0].Title = "mutated"
	if d.Results()[0].Title == "mutated" {
		t.Error("Results() must return a fresh copy")
	}
}

const validOverride = `
- id: x1
  title: Override
  source: Desk
  url: https://example.com/x1
  published_at: "2026-01-01"
  bm25: 12.5
  cosine: 1
  ai_score: 0
  snippet: Replacement sample.
`

func TestDataset_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.yaml")
	if err := os.WriteFile(path, []byte(validOverride), 0600); err != nil {
		t.Fatal(err)
	}
	d := NewDataset()
	if err := d.LoadFile(path); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 || d.Results()[0].ID != "x1" || d.Source() != path {
		t.Errorf("override not loaded: %+v", d.Results())
	}
	d.Reset()
	if d.Len() != 4 {
		t.Errorf("Reset: got %d records", d.Len())
	}
}

func TestDataset_LoadFileInvalidKeepsCurrent(t *testing.T) {
	d := NewDataset()
	path := filepath.Join(t.TempDir(), "fallback.yaml")
	if err := os.WriteFile(path, []byte("[]"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := d.LoadFile(path); err == nil {
		t.Error("empty dataset should be rejected")
	}
	if err := d.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should be rejected")
	}
	if d.Len() != 4 || d.Source() != "builtin" {
		t.Errorf("invalid override replaced dataset: len=%d source=%s", d.Len(), d.Source())
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing title", strings.Replace(validOverride, "title: Override", "title: \"\"", 1), "title is empty"},
		{"missing score", strings.Replace(validOverride, "  cosine: 1\n", "", 1), "required"},
		{"cosine out of range", strings.Replace(validOverride, "cosine: 1", "cosine: 1.5", 1), "cosine"},
		{"negative bm25", strings.Replace(validOverride, "bm25: 12.5", "bm25: -1", 1), "bm25"},
		{"nan ai score", strings.Replace(validOverride, "ai_score: 0", "ai_score: .nan", 1), "ai_score"},
		{"duplicate id", validOverride + strings.TrimPrefix(validOverride, "\n"), "duplicate"},
		{"not yaml list", "id: x", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
