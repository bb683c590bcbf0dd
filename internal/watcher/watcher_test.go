package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	changed []string
	removed []string
}

func (r *recorder) onChange(path string) {
	r.mu.Lock()
	r.changed = append(r.changed, path)
	r.mu.Unlock()
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changed), len(r.removed)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "fallback.yaml")
	if err := os.WriteFile(target, []byte("a"), 0600); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	w := New([]string{target}, rec.onChange, rec.onRemove, WithDebounce(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("burst"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, func() bool { c, _ := rec.counts(); return c >= 1 })
	time.Sleep(250 * time.Millisecond)
	if c, _ := rec.counts(); c != 1 {
		t.Errorf("burst of writes should produce one change callback, got %d", c)
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "fallback.yaml")
	if err := os.WriteFile(target, []byte("a"), 0600); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	w := New([]string{target}, rec.onChange, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if c, r := rec.counts(); c != 0 || r != 0 {
		t.Errorf("sibling file should be ignored, got changed=%d removed=%d", c, r)
	}
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "fallback.yaml")
	if err := os.WriteFile(target, []byte("a"), 0600); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	w := New([]string{target}, rec.onChange, rec.onRemove)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { _, r := rec.counts(); return r == 1 })
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing", "f.yaml")}, nil, nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Error("expected error when the parent directory does not exist")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := New(nil, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
