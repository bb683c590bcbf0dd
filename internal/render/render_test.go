package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/hyperjump/newsprobe/internal/models"
	"github.com/hyperjump/newsprobe/internal/session"
)

func TestAIBand(t *testing.T) {
	tests := []struct {
		name  string
		score models.Score
		want  Band
	}{
		{"low", models.NewScore(0.22), BandLow},
		{"zero", models.NewScore(0), BandLow},
		{"medium boundary", models.NewScore(0.35), BandMedium},
		{"medium", models.NewScore(0.64), BandMedium},
		{"high boundary", models.NewScore(0.65), BandHigh},
		{"high", models.NewScore(0.80), BandHigh},
		{"unknown", models.Unknown(), BandUnknown},
		{"nan", models.NewScore(math.NaN()), BandUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AIBand(tt.score); got != tt.want {
				t.Errorf("AIBand() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBandClass(t *testing.T) {
	if BandLow.Class() == BandHigh.Class() || BandMedium.Class() == BandUnknown.Class() {
		t.Error("bands should map to distinct classes")
	}
}

func TestAIPercent(t *testing.T) {
	if got := AIPercent(models.NewScore(0.22)); got != "22%" {
		t.Errorf("AIPercent(0.22) = %q", got)
	}
	if got := AIPercent(models.Unknown()); got != "–" {
		t.Errorf("AIPercent(unknown) = %q", got)
	}
}

func TestBM25Bar(t *testing.T) {
	tests := []struct {
		name  string
		score models.Score
		width float64
		css   string
		text  string
	}{
		{"scaled", models.NewScore(7.42), 74.2, "74.2%", "7.42"},
		{"saturates at ten", models.NewScore(10), 100, "100%", "10.00"},
		{"saturates above ten", models.NewScore(23.5), 100, "100%", "23.50"},
		{"negative", models.NewScore(-1), 0, "0%", "-1.00"},
		{"unknown", models.Unknown(), 0, "0%", Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BM25Bar(tt.score)
			if math.Abs(b.Width-tt.width) > 1e-9 {
				t.Errorf("Width = %v, want %v", b.Width, tt.width)
			}
			if b.WidthCSS() != tt.css {
				t.Errorf("WidthCSS() = %q, want %q", b.WidthCSS(), tt.css)
			}
			if b.Text != tt.text {
				t.Errorf("Text = %q, want %q", b.Text, tt.text)
			}
		})
	}
}

func TestScoreBar(t *testing.T) {
	b := ScoreBar("Cosine", models.NewScore(0.83), ColorCosine)
	if b.WidthCSS() != "83%" || b.Text != "0.83" || !b.Known {
		t.Errorf("unexpected bar %+v", b)
	}

	b = ScoreBar("Cosine", models.NewScore(1.7), ColorCosine)
	if b.Width != 100 {
		t.Errorf("out of range score should clamp, width = %v", b.Width)
	}

	b = ScoreBar("Cosine", models.NewScore(math.NaN()), ColorCosine)
	if b.Text != Placeholder || b.Width != 0 || b.Known {
		t.Errorf("NaN should render placeholder, got %+v", b)
	}
}

func sampleResults(n int) []models.SearchResult {
	out := make([]models.SearchResult, n)
	for i := range out {
		out[i] = models.SearchResult{
			ID:           string(rune('a' + i)),
			Title:        "Title",
			SourceName:   "Source",
			URL:          "https://example.com",
			BM25Score:    models.NewScore(7.42),
			CosineScore:  models.NewScore(0.5),
			AILikelihood: models.NewScore(0.22),
			Snippet:      "Snippet",
		}
	}
	return out
}

func TestNewWidget(t *testing.T) {
	p := models.DefaultParameters()

	idle := NewWidget(session.Idle(), p, 10)
	if !idle.Idle || idle.Loading || idle.Empty || len(idle.Cards) != 0 {
		t.Errorf("idle widget = %+v", idle)
	}

	loading := NewWidget(session.Loading(1, p), p, 10)
	if !loading.Loading || len(loading.Skeletons) != SkeletonCount || len(loading.Cards) != 0 {
		t.Errorf("loading widget = %+v", loading)
	}

	empty := NewWidget(session.Success(1, p, nil), p, 10)
	if !empty.Empty || empty.Idle {
		t.Errorf("empty success should be empty, not idle: %+v", empty)
	}

	full := NewWidget(session.Success(1, p, sampleResults(5)), p, 3)
	if len(full.Cards) != 3 || full.Total != 5 || full.Empty {
		t.Errorf("widget should show 3 of 5, got %d of %d", len(full.Cards), full.Total)
	}
	for i, c := range full.Cards {
		if c.Rank != i+1 {
			t.Errorf("card %d rank = %d", i, c.Rank)
		}
	}

	degraded := NewWidget(session.Degraded(1, p, sampleResults(2), "offline"), p, 10)
	if degraded.Notice != "offline" || len(degraded.Cards) != 2 {
		t.Errorf("degraded widget = %+v", degraded)
	}
}

func TestHTML_WriteWidget(t *testing.T) {
	h, err := NewHTML()
	if err != nil {
		t.Fatalf("NewHTML() error = %v", err)
	}
	p := models.DefaultParameters()

	tests := []struct {
		name    string
		state   session.State
		want    []string
		notWant []string
	}{
		{
			name:    "idle",
			state:   session.Idle(),
			want:    []string{"state-idle", `value="news"`},
			notWant: []string{"state-empty", `class="card"`},
		},
		{
			name:  "loading",
			state: session.Loading(1, p),
			want:  []string{"skeleton"},
		},
		{
			name:    "empty",
			state:   session.Success(1, p, nil),
			want:    []string{"state-empty", "No results found"},
			notWant: []string{"state-idle"},
		},
		{
			name:  "degraded",
			state: session.Degraded(2, p, sampleResults(1), session.DegradedReason),
			want:  []string{`class="notice"`, "badge-low", "AI likelihood 22%", "width: 74.2%", "BM25 7.42"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWidget(tt.state, p, p.Limit)
			w.Models = []string{"mpnet", "minilm"}
			var buf bytes.Buffer
			if err := h.WriteWidget(&buf, w); err != nil {
				t.Fatalf("WriteWidget() error = %v", err)
			}
			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q", s)
				}
			}
		})
	}
}

func TestHTML_SkeletonCount(t *testing.T) {
	h, err := NewHTML()
	if err != nil {
		t.Fatal(err)
	}
	p := models.DefaultParameters()
	var buf bytes.Buffer
	if err := h.WriteWidget(&buf, NewWidget(session.Loading(1, p), p, 10)); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), `class="card skeleton"`); n != SkeletonCount {
		t.Errorf("rendered %d skeletons, want %d", n, SkeletonCount)
	}
}

func TestHTML_EscapesContent(t *testing.T) {
	h, err := NewHTML()
	if err != nil {
		t.Fatal(err)
	}
	results := sampleResults(1)
	results[0].Title = "<script>alert(1)</script>"
	p := models.DefaultParameters()
	var buf bytes.Buffer
	if err := h.WriteWidget(&buf, NewWidget(session.Success(1, p, results), p, p.Limit)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Error("title should be escaped")
	}
}

func TestNewDocument(t *testing.T) {
	p := models.DefaultParameters()
	doc := NewDocument(session.Success(4, p, sampleResults(6)), 25)
	if doc.Limit != 20 || doc.Total != 6 || len(doc.Results) != 6 || doc.Seq != 4 {
		t.Errorf("unexpected document %+v", doc)
	}
	idle := NewDocument(session.Idle(), 10)
	if idle.Results == nil || len(idle.Results) != 0 {
		t.Errorf("idle document results = %v", idle.Results)
	}
}
