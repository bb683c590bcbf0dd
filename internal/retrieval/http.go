package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/newsprobe/internal/models"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single request when the caller sets none.
const DefaultTimeout = 5 * time.Second

// maxErrorBody caps how much of a failed response body ends up in errors.
const maxErrorBody = 512

// HTTPClient queries GET {endpoint}/search.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) ClientOption {
	return func(h *HTTPClient) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithLogger sets a logger for request debugging.
func WithLogger(l *zap.Logger) ClientOption {
	return func(h *HTTPClient) { h.logger = l }
}

// NewHTTPClient returns a client for the endpoint base URL, e.g. "http://localhost:8000".
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	h := &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Endpoint returns the configured base URL.
func (h *HTTPClient) Endpoint() string {
	return h.endpoint
}

// SearchURL builds the request URL for req.
func (h *HTTPClient) SearchURL(req models.SearchRequest) string {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("top_k", strconv.Itoa(req.TopK))
	params.Set("rerank", strconv.FormatBool(req.Rerank))
	params.Set("model", req.Model)
	return h.endpoint + "/search?" + params.Encode()
}

// Search issues exactly one request. Every returned error wraps ErrUnavailable.
func (h *HTTPClient) Search(ctx context.Context, req models.SearchRequest) ([]models.SearchResult, error) {
	target := h.SearchURL(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	h.logger.Debug("retrieval request", zap.String("url", target))
	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: server returned %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var body *models.SearchResponse
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: decode response: empty document", ErrUnavailable)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode response: trailing data after document", ErrUnavailable)
	}
	h.logger.Debug("retrieval response", zap.Int("items", len(body.Items)))
	if body.Items == nil {
		return []models.SearchResult{}, nil
	}
	return body.Items, nil
}
