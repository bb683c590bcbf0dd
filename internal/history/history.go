// Package history records how search dispatches resolved so operators can
// see what was asked, whether the backend answered and how long it took.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/newsprobe/internal/session"
	"go.uber.org/zap"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// Entry is one recorded dispatch.
type Entry struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Seq         uint64    `json:"seq"`
	Query       string    `json:"query"`
	Limit       int       `json:"limit"`
	Rerank      bool      `json:"rerank"`
	Model       string    `json:"model"`
	Phase       string    `json:"phase"`
	ResultCount int       `json:"result_count"`
	Reason      string    `json:"reason,omitempty"`
	Error       string    `json:"error,omitempty"`
	Superseded  bool      `json:"superseded"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromOutcome converts a session outcome to an entry.
func FromOutcome(o session.Outcome) Entry {
	e := Entry{
		SessionID:   o.SessionID,
		Seq:         o.Seq,
		Query:       o.Params.Query,
		Limit:       o.Params.Limit,
		Rerank:      o.Params.RerankEnabled,
		Model:       o.Params.ModelName,
		Phase:       o.Phase.String(),
		ResultCount: o.ResultCount,
		Reason:      o.Reason,
		Superseded:  o.Superseded,
		DurationMS:  o.Duration.Milliseconds(),
		CreatedAt:   o.Started,
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	return e
}

// Store persists dispatch history.
type Store interface {
	Record(ctx context.Context, e *Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// Observer returns a session observer that records every outcome in store.
// Write failures are logged and otherwise ignored; history never affects
// what a user sees.
func Observer(store Store, logger *zap.Logger) session.Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return session.ObserverFunc(func(ctx context.Context, o session.Outcome) {
		e := FromOutcome(o)
		// The request context may already be cancelled by the time a
		// superseded dispatch resolves.
		if err := store.Record(context.WithoutCancel(ctx), &e); err != nil {
			logger.Warn("failed to record dispatch",
				zap.String("session", o.SessionID),
				zap.Uint64("seq", o.Seq),
				zap.Error(err),
			)
		}
	})
}
