package render

import (
	"github.com/hyperjump/newsprobe/internal/models"
	"github.com/hyperjump/newsprobe/internal/session"
)

// Document is the JSON form of a session state, shared by the HTTP API and
// the CLI.
type Document struct {
	Phase   session.Phase         `json:"phase"`
	Seq     uint64                `json:"seq"`
	Query   string                `json:"query"`
	Limit   int                   `json:"limit"`
	Rerank  bool                  `json:"rerank"`
	Model   string                `json:"model"`
	Reason  string                `json:"reason,omitempty"`
	Total   int                   `json:"total"`
	Results []models.SearchResult `json:"results"`
}

// NewDocument builds the document for state showing at most limit results.
// Results is never nil.
func NewDocument(state session.State, limit int) Document {
	results := session.VisibleResults(state, limit)
	if results == nil {
		results = []models.SearchResult{}
	}
	return Document{
		Phase:   state.Phase,
		Seq:     state.Seq,
		Query:   state.Params.Query,
		Limit:   models.ClampLimit(limit),
		Rerank:  state.Params.RerankEnabled,
		Model:   state.Params.ModelName,
		Reason:  state.Reason,
		Total:   len(state.Results),
		Results: results,
	}
}
