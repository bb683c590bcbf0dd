package render

import (
	"github.com/hyperjump/newsprobe/internal/models"
	"github.com/hyperjump/newsprobe/internal/session"
)

// SkeletonCount is the number of placeholder cards shown while loading.
const SkeletonCount = 3

// Card is the presentation model of one result.
type Card struct {
	Rank    int
	ID      string
	Title   string
	Source  string
	Date    string
	Snippet string
	URL     string

	Cosine Bar
	AI     Bar
	BM25   Bar

	Band      Band
	BadgeText string
	AIText    string
	BM25Text  string
	CosText   string
}

// NewCard builds the card for r shown at 1-based rank.
func NewCard(r models.SearchResult, rank int) Card {
	return Card{
		Rank:      rank,
		ID:        r.ID,
		Title:     r.Title,
		Source:    r.SourceName,
		Date:      r.PublishedDate,
		Snippet:   r.Snippet,
		URL:       r.URL,
		Cosine:    ScoreBar("Cosine", r.CosineScore, ColorCosine),
		AI:        ScoreBar("AI score", r.AILikelihood, ColorAI),
		BM25:      BM25Bar(r.BM25Score),
		Band:      AIBand(r.AILikelihood),
		BadgeText: "AI likelihood " + AIPercent(r.AILikelihood),
		AIText:    AIPercent(r.AILikelihood),
		BM25Text:  ScoreText(r.BM25Score),
		CosText:   ScoreText(r.CosineScore),
	}
}

// Widget is the presentation model of the demo widget for one state.
// Exactly one of Idle, Loading, Empty or len(Cards) > 0 holds.
type Widget struct {
	Params  models.SearchParameters
	Phase   session.Phase
	Idle    bool
	Loading bool
	// Skeletons has SkeletonCount entries while loading, for templates to range over.
	Skeletons []int
	Cards     []Card
	// Empty is set only for a completed search with nothing to show.
	Empty  bool
	Notice string
	Total  int
	// Models lists the selectable reranking models; filled in by the caller.
	Models []string
}

// NewWidget builds the widget for state showing at most limit results.
func NewWidget(state session.State, params models.SearchParameters, limit int) Widget {
	w := Widget{
		Params: params,
		Phase:  state.Phase,
		Notice: state.Reason,
	}
	switch {
	case state.InFlight():
		w.Loading = true
		w.Skeletons = make([]int, SkeletonCount)
		return w
	case !state.Completed():
		w.Idle = true
		return w
	}
	visible := session.VisibleResults(state, limit)
	w.Total = len(state.Results)
	w.Cards = make([]Card, len(visible))
	for i, r := range visible {
		w.Cards[i] = NewCard(r, i+1)
	}
	w.Empty = len(w.Cards) == 0
	return w
}
