package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		query TEXT NOT NULL,
		result_limit INTEGER NOT NULL,
		rerank INTEGER NOT NULL,
		model TEXT NOT NULL,
		phase TEXT NOT NULL,
		result_count INTEGER NOT NULL,
		reason TEXT,
		error TEXT,
		superseded INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_dispatches_created_at ON dispatches(created_at);
	CREATE INDEX IF NOT EXISTS idx_dispatches_session ON dispatches(session_id, seq);
	`
	_, err := db.Exec(schema)
	return err
}

// Record inserts e and sets its ID. A zero CreatedAt is set to now.
func (s *SQLiteStore) Record(ctx context.Context, e *Entry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO dispatches (session_id, seq, query, result_limit, rerank, model, phase,
			result_count, reason, error, superseded, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, int64(e.Seq), e.Query, e.Limit, e.Rerank, e.Model, e.Phase,
		e.ResultCount, e.Reason, e.Error, e.Superseded, e.DurationMS, e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record dispatch: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		return []Entry{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, seq, query, result_limit, rerank, model, phase,
			result_count, reason, error, superseded, duration_ms, created_at
		 FROM dispatches ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var seq int64
		var reason, errText sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &seq, &e.Query, &e.Limit, &e.Rerank, &e.Model, &e.Phase,
			&e.ResultCount, &reason, &errText, &e.Superseded, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Seq = uint64(seq)
		e.Reason = reason.String
		e.Error = errText.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded dispatches.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dispatches`).Scan(&count)
	return count, err
}

// Close closes the database connection. It is safe to call more than once.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// DiskUsage returns the size in bytes of the database file and its WAL
// companions. Missing files contribute 0.
func (s *SQLiteStore) DiskUsage() (int64, error) {
	var total int64
	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}
