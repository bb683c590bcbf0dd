// Package session implements the search session behind the demo widget: one
// retrieval in flight at a time, latest dispatch wins, and any retrieval
// failure degrades to the built-in demonstration results.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/newsprobe/internal/fallback"
	"github.com/hyperjump/newsprobe/internal/models"
	"github.com/hyperjump/newsprobe/internal/retrieval"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a dispatch so that it cannot stay loading forever.
const DefaultTimeout = 5 * time.Second

// DegradedReason is shown whenever fallback results replace live ones.
const DegradedReason = "The live search backend is unavailable right now. Showing built-in demo results instead."

// FallbackSource supplies the demonstration results. Each call must return a
// fresh, non-empty slice.
type FallbackSource interface {
	Results() []models.SearchResult
}

// Outcome describes how one dispatch resolved.
type Outcome struct {
	SessionID   string
	Seq         uint64
	Params      models.SearchParameters
	Phase       Phase
	ResultCount int
	Reason      string
	// Err is the underlying retrieval error for degraded outcomes. It is for
	// logs only and never shown to users.
	Err error
	// Superseded is true when a newer dispatch was issued before this one
	// resolved; its results were discarded.
	Superseded bool
	Started    time.Time
	Duration   time.Duration
}

// Observer is notified after every dispatch resolves, applied or discarded.
type Observer interface {
	ObserveOutcome(ctx context.Context, o Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, o Outcome)

// ObserveOutcome calls f.
func (f ObserverFunc) ObserveOutcome(ctx context.Context, o Outcome) { f(ctx, o) }

// Session owns one widget's parameters and state.
type Session struct {
	id        string
	retriever retrieval.Retriever
	fallback  FallbackSource
	timeout   time.Duration
	logger    *zap.Logger
	observers []Observer
	now       func() time.Time

	mu     sync.Mutex
	params models.SearchParameters
	state  State
	seq    uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithTimeout bounds each dispatch. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithObserver adds an outcome observer.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// WithParams sets the initial parameters.
func WithParams(p models.SearchParameters) Option {
	return func(s *Session) { s.params = p }
}

// WithID sets the session id; a random one is used otherwise.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New creates an idle session. A nil retriever behaves like retrieval.Offline
// and a nil fallback uses the built-in dataset.
func New(retriever retrieval.Retriever, fb FallbackSource, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		retriever: retriever,
		fallback:  fb,
		timeout:   DefaultTimeout,
		logger:    zap.NewNop(),
		now:       time.Now,
		params:    models.DefaultParameters(),
		state:     Idle(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.retriever == nil {
		s.retriever = retrieval.Offline{}
	}
	if s.fallback == nil {
		s.fallback = fallback.NewDataset()
	}
	s.params.Limit = models.ClampLimit(s.params.Limit)
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Params returns a snapshot of the current parameters.
func (s *Session) Params() models.SearchParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetQuery sets the free-text query. It is normalized only at dispatch.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	s.params.Query = q
	s.mu.Unlock()
}

// SetLimit sets how many results are shown, clamped to the allowed range.
// It does not dispatch.
func (s *Session) SetLimit(n int) {
	s.mu.Lock()
	s.params.Limit = models.ClampLimit(n)
	s.mu.Unlock()
}

// SetRerank toggles semantic reranking for the next dispatch.
func (s *Session) SetRerank(enabled bool) {
	s.mu.Lock()
	s.params.RerankEnabled = enabled
	s.mu.Unlock()
}

// SetModel selects the reranking model for the next dispatch.
func (s *Session) SetModel(name string) {
	s.mu.Lock()
	s.params.ModelName = name
	s.mu.Unlock()
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Visible returns the results currently on display.
func (s *Session) Visible() []models.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return VisibleResults(s.state, s.params.Limit)
}

// Search dispatches the current parameters.
func (s *Session) Search(ctx context.Context) State {
	return s.Dispatch(ctx, s.Params())
}

// Dispatch runs one search with p and returns the session state once this
// dispatch has resolved. p becomes the session's parameters. If another
// dispatch is issued before this one resolves, this one's outcome is
// discarded and the returned state belongs to the newer dispatch.
// Dispatch never fails; retrieval errors become a degraded state.
func (s *Session) Dispatch(ctx context.Context, p models.SearchParameters) State {
	p.Limit = models.ClampLimit(p.Limit)
	req := p.Request()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.params = p
	s.state = Loading(seq, p)
	s.mu.Unlock()

	started := s.now()
	s.logger.Debug("dispatch",
		zap.String("session", s.id),
		zap.Uint64("seq", seq),
		zap.String("query", req.Query),
		zap.Int("top_k", req.TopK),
		zap.Bool("rerank", req.Rerank),
		zap.String("model", req.Model),
	)

	rctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	results, err := s.retriever.Search(rctx, req)

	var next State
	if err != nil {
		s.logger.Warn("retrieval failed, showing fallback results",
			zap.String("session", s.id),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		next = Degraded(seq, p, s.fallback.Results(), DegradedReason)
	} else {
		next = Success(seq, p, results)
	}

	s.mu.Lock()
	superseded := seq != s.seq
	if !superseded {
		s.state = next
	}
	current := s.state
	s.mu.Unlock()

	if superseded {
		s.logger.Debug("discarding superseded dispatch",
			zap.String("session", s.id),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", current.Seq),
		)
	}

	outcome := Outcome{
		SessionID:   s.id,
		Seq:         seq,
		Params:      p,
		Phase:       next.Phase,
		ResultCount: len(next.Results),
		Reason:      next.Reason,
		Err:         err,
		Superseded:  superseded,
		Started:     started,
		Duration:    s.now().Sub(started),
	}
	for _, o := range s.observers {
		o.ObserveOutcome(ctx, outcome)
	}
	return current
}
