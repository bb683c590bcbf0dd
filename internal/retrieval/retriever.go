// Package retrieval talks to the external news search endpoint.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/newsprobe/internal/models"
)

// ErrUnavailable is wrapped by every error a Retriever returns: unreachable
// host, non-success status, malformed body, timeout, or no backend at all.
var ErrUnavailable = errors.New("retrieval unavailable")

// Retriever fetches ranked articles for one request.
type Retriever interface {
	Search(ctx context.Context, req models.SearchRequest) ([]models.SearchResult, error)
}

// Offline is the Retriever for deployments without a backend. It never
// touches the network.
type Offline struct{}

// Search always fails with ErrUnavailable.
func (Offline) Search(ctx context.Context, req models.SearchRequest) ([]models.SearchResult, error) {
	return nil, fmt.Errorf("%w: no search endpoint configured", ErrUnavailable)
}
