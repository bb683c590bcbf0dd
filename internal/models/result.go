package models

import (
	"bytes"
	"encoding/json"
)

// SearchResult is one retrieved article. Metadata fields are opaque strings;
// the three scores may be unknown.
type SearchResult struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	SourceName    string `json:"source"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedAt"`
	// BM25Score is a non-negative lexical relevance score with no upper bound.
	BM25Score Score `json:"bm25"`
	// CosineScore is the query/article embedding similarity, expected in [0,1].
	CosineScore Score `json:"cosine"`
	// AILikelihood is the probability the article is machine-written, in [0,1].
	AILikelihood Score  `json:"aiScore"`
	Snippet      string `json:"snippet"`
}

// UnmarshalJSON decodes a result leniently: numeric and boolean metadata is
// kept as its literal text, and null or nested values read as empty.
func (r *SearchResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            text  `json:"id"`
		Title         text  `json:"title"`
		SourceName    text  `json:"source"`
		URL           text  `json:"url"`
		PublishedDate text  `json:"publishedAt"`
		BM25Score     Score `json:"bm25"`
		CosineScore   Score `json:"cosine"`
		AILikelihood  Score `json:"aiScore"`
		Snippet       text  `json:"snippet"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = SearchResult{
		ID:            string(raw.ID),
		Title:         string(raw.Title),
		SourceName:    string(raw.SourceName),
		URL:           string(raw.URL),
		PublishedDate: string(raw.PublishedDate),
		BM25Score:     raw.BM25Score,
		CosineScore:   raw.CosineScore,
		AILikelihood:  raw.AILikelihood,
		Snippet:       string(raw.Snippet),
	}
	return nil
}

// text is a metadata string that also accepts JSON numbers and booleans.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	*t = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*t = text(s)
	case 'n', '{', '[':
		// null, objects and arrays carry no displayable text
	default:
		*t = text(data)
	}
	return nil
}

// SearchResponse is the body returned by the retrieval endpoint.
// A missing or empty Items is a valid empty result.
type SearchResponse struct {
	Items []SearchResult `json:"items"`
}
