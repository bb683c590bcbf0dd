// Package models defines search parameters and the article records returned by the retrieval endpoint.
package models

import "strings"

const (
	// DefaultQuery replaces an empty or whitespace-only query before dispatch.
	DefaultQuery = "news"
	// DefaultLimit is the number of results shown when none is chosen.
	DefaultLimit = 10
	// MinLimit and MaxLimit bound how many results are shown.
	MinLimit = 1
	MaxLimit = 20
	// DefaultModel is the reranking model requested when none is chosen.
	DefaultModel = "mpnet"
)

// SearchParameters are the user-controlled inputs of a search session.
// Limit controls how many results are shown, not how many are retrieved.
type SearchParameters struct {
	Query         string `json:"query" yaml:"query"`
	Limit         int    `json:"limit" yaml:"limit"`
	RerankEnabled bool   `json:"rerank" yaml:"rerank"`
	ModelName     string `json:"model" yaml:"model"`
}

// DefaultParameters returns the parameters a new session starts with.
func DefaultParameters() SearchParameters {
	return SearchParameters{
		Query:         DefaultQuery,
		Limit:         DefaultLimit,
		RerankEnabled: true,
		ModelName:     DefaultModel,
	}
}

// ClampLimit constrains n to [MinLimit, MaxLimit].
func ClampLimit(n int) int {
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// NormalizeQuery trims q and substitutes DefaultQuery when nothing is left.
func NormalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return DefaultQuery
	}
	return q
}

// Normalize returns a copy of p that is safe to send: query trimmed or
// defaulted, limit clamped, model defaulted.
func (p SearchParameters) Normalize() SearchParameters {
	p.Query = NormalizeQuery(p.Query)
	p.Limit = ClampLimit(p.Limit)
	p.ModelName = strings.TrimSpace(p.ModelName)
	if p.ModelName == "" {
		p.ModelName = DefaultModel
	}
	return p
}

// SearchRequest is the outbound query sent to the retrieval endpoint.
type SearchRequest struct {
	Query  string `json:"q"`
	TopK   int    `json:"top_k"`
	Rerank bool   `json:"rerank"`
	Model  string `json:"model"`
}

// Request builds the retrieval request for p. Parameters that normalize to
// the same values always produce the same request.
func (p SearchParameters) Request() SearchRequest {
	n := p.Normalize()
	return SearchRequest{
		Query:  n.Query,
		TopK:   n.Limit,
		Rerank: n.RerankEnabled,
		Model:  n.ModelName,
	}
}
