package main

import (
	"context"
	"fmt"

	"github.com/hyperjump/newsprobe/internal/config"
	"github.com/hyperjump/newsprobe/internal/fallback"
	"github.com/hyperjump/newsprobe/internal/history"
	"github.com/hyperjump/newsprobe/internal/retrieval"
	"github.com/hyperjump/newsprobe/internal/session"
	"github.com/hyperjump/newsprobe/internal/watcher"
	"go.uber.org/zap"
)

// Components holds initialized services.
type Components struct {
	Retriever retrieval.Retriever
	Fallback  *fallback.Dataset
	History   history.Store
	Watcher   *watcher.Watcher
	logger    *zap.Logger
	cfg       *config.Config
}

// Close releases the history store and stops the fallback watcher.
func (c *Components) Close() {
	if c.Watcher != nil {
		c.Watcher.Stop()
	}
	if c.History != nil {
		_ = c.History.Close()
	}
}

// NewSession creates a session wired to the retriever, fallback dataset and
// history. An empty id gets a fresh one.
func (c *Components) NewSession(id string) *session.Session {
	opts := []session.Option{
		session.WithLogger(c.logger),
		session.WithTimeout(c.cfg.Retrieval.Timeout),
		session.WithParams(c.cfg.Retrieval.Parameters()),
	}
	if id != "" {
		opts = append(opts, session.WithID(id))
	}
	if c.History != nil {
		opts = append(opts, session.WithObserver(history.Observer(c.History, c.logger)))
	}
	return session.New(c.Retriever, c.Fallback, opts...)
}

// newRetriever returns the HTTP client for endpoint, or Offline when none is
// configured.
func newRetriever(endpoint string, cfg *config.RetrievalConfig, logger *zap.Logger) retrieval.Retriever {
	if endpoint == "" {
		logger.Info("no search endpoint configured, demo will show fallback results")
		return retrieval.Offline{}
	}
	client := retrieval.NewHTTPClient(endpoint,
		retrieval.WithTimeout(cfg.Timeout),
		retrieval.WithLogger(logger),
	)
	logger.Info("retrieval endpoint configured",
		zap.String("endpoint", client.Endpoint()),
		zap.Duration("timeout", cfg.Timeout),
	)
	return client
}

// newFallback loads the configured override dataset. An invalid override is
// logged and the built-in records are used.
func newFallback(cfg *config.FallbackConfig, logger *zap.Logger) *fallback.Dataset {
	ds := fallback.NewDataset()
	if cfg.DatasetPath == "" {
		return ds
	}
	if err := ds.LoadFile(cfg.DatasetPath); err != nil {
		logger.Warn("fallback dataset override not loaded, using built-in results",
			zap.String("path", cfg.DatasetPath), zap.Error(err))
	} else {
		logger.Info("fallback dataset loaded",
			zap.String("path", cfg.DatasetPath), zap.Int("records", ds.Len()))
	}
	return ds
}

// watchFallback reloads ds whenever its override file changes. Removing the
// file restores the built-in records.
func watchFallback(ctx context.Context, ds *fallback.Dataset, path string, logger *zap.Logger) (*watcher.Watcher, error) {
	w := watcher.New([]string{path},
		func(p string) {
			if err := ds.LoadFile(p); err != nil {
				logger.Warn("fallback dataset reload failed, keeping current records",
					zap.String("path", p), zap.Error(err))
				return
			}
			logger.Info("fallback dataset reloaded", zap.String("path", p), zap.Int("records", ds.Len()))
		},
		func(p string) {
			ds.Reset()
			logger.Info("fallback dataset removed, using built-in results", zap.String("path", p))
		},
		watcher.WithLogger(logger),
	)
	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to watch fallback dataset: %w", err)
	}
	return w, nil
}

// initializeComponents wires the services for cfg. A history store that
// cannot be opened is fatal only when requireHistory is set.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, requireHistory bool) (*Components, error) {
	c := &Components{
		Retriever: newRetriever(cfg.Retrieval.Endpoint, &cfg.Retrieval, logger),
		Fallback:  newFallback(&cfg.Fallback, logger),
		logger:    logger,
		cfg:       cfg,
	}

	store, err := history.NewSQLiteStore(cfg.Storage.HistoryPath)
	if err != nil {
		if requireHistory {
			return nil, fmt.Errorf("failed to initialize history: %w", err)
		}
		logger.Warn("history disabled", zap.String("path", cfg.Storage.HistoryPath), zap.Error(err))
	} else {
		c.History = store
	}

	if cfg.Fallback.Watch && cfg.Fallback.DatasetPath != "" {
		w, err := watchFallback(ctx, c.Fallback, cfg.Fallback.DatasetPath, logger)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Watcher = w
	}
	return c, nil
}
