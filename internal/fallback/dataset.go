// Package fallback holds the demonstration articles shown when the live
// search backend cannot be reached.
package fallback

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/hyperjump/newsprobe/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var builtinYAML []byte

// Record is the on-disk form of one demonstration article.
type Record struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Source      string   `yaml:"source"`
	URL         string   `yaml:"url"`
	PublishedAt string   `yaml:"published_at"`
	BM25        *float64 `yaml:"bm25"`
	Cosine      *float64 `yaml:"cosine"`
	AIScore     *float64 `yaml:"ai_score"`
	Snippet     string   `yaml:"snippet"`
}

// Result converts r into a search result with every score present.
func (r Record) Result() models.SearchResult {
	return models.SearchResult{
		ID:            r.ID,
		Title:         r.Title,
		SourceName:    r.Source,
		URL:           r.URL,
		PublishedDate: r.PublishedAt,
		BM25Score:     score(r.BM25),
		CosineScore:   score(r.Cosine),
		AILikelihood:  score(r.AIScore),
		Snippet:       r.Snippet,
	}
}

func score(v *float64) models.Score {
	if v == nil {
		return models.Unknown()
	}
	return models.NewScore(*v)
}

// Parse decodes and validates a YAML list of records.
func Parse(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse fallback dataset: %w", err)
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Validate checks that records are complete and in range, so that the
// dataset always renders cleanly.
func Validate(records []Record) error {
	if len(records) == 0 {
		return errors.New("fallback dataset is empty")
	}
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		fields := []struct{ name, value string }{
			{"id", r.ID}, {"title", r.Title}, {"source", r.Source},
			{"url", r.URL}, {"published_at", r.PublishedAt}, {"snippet", r.Snippet},
		}
		for _, f := range fields {
			if strings.TrimSpace(f.value) == "" {
				return fmt.Errorf("fallback record %d: %s is empty", i, f.name)
			}
		}
		if seen[r.ID] {
			return fmt.Errorf("fallback record %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = true
		if r.BM25 == nil || r.Cosine == nil || r.AIScore == nil {
			return fmt.Errorf("fallback record %q: bm25, cosine and ai_score are required", r.ID)
		}
		if !finite(*r.BM25) || *r.BM25 < 0 {
			return fmt.Errorf("fallback record %q: bm25 %v must be finite and non-negative", r.ID, *r.BM25)
		}
		if !unit(*r.Cosine) {
			return fmt.Errorf("fallback record %q: cosine %v outside [0,1]", r.ID, *r.Cosine)
		}
		if !unit(*r.AIScore) {
			return fmt.Errorf("fallback record %q: ai_score %v outside [0,1]", r.ID, *r.AIScore)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unit(v float64) bool {
	return finite(v) && v >= 0 && v <= 1
}

// Builtin returns the records shipped with the binary.
func Builtin() []Record {
	records, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in fallback dataset is invalid: %v", err))
	}
	return records
}

// Dataset is the current set of fallback records. It is safe for concurrent use.
type Dataset struct {
	mu      sync.RWMutex
	records []Record
	source  string
}

// NewDataset returns a dataset holding the built-in records.
func NewDataset() *Dataset {
	return &Dataset{records: Builtin(), source: "builtin"}
}

// Results returns a fresh copy of the records as search results.
func (d *Dataset) Results() []models.SearchResult {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.SearchResult, len(d.records))
	for i, r := range d.records {
		out[i] = r.Result()
	}
	return out
}

// Source returns "builtin" or the path of the loaded override file.
func (d *Dataset) Source() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.source
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// LoadFile replaces the records with the contents of path. On any error the
// current records are kept.
func (d *Dataset) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fallback dataset: %w", err)
	}
	records, err := Parse(data)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.records = records
	d.source = path
	d.mu.Unlock()
	return nil
}

// Reset restores the built-in records.
func (d *Dataset) Reset() {
	records := Builtin()
	d.mu.Lock()
	d.records = records
	d.source = "builtin"
	d.mu.Unlock()
}
