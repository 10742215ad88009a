package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestPollDetectsExistingFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "request.json")
	os.WriteFile(target, []byte(`{"input":1}`), 0644)

	var calls atomic.Int32
	w := New(target, 50*time.Millisecond, func(path string) {
		if path != target {
			t.Errorf("onChange path = %q, want %q", path, target)
		}
		calls.Add(1)
	}, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer w.Stop()

	if !waitFor(t, func() bool { return calls.Load() > 0 }, 2*time.Second) {
		t.Error("expected poll to report the existing file")
	}
}

func TestDetectsNewFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "request.json")

	var calls atomic.Int32
	// fsnotify normally fires well before the first poll
	w := New(target, 500*time.Millisecond, func(string) { calls.Add(1) }, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer w.Stop()

	os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644)
	os.WriteFile(target, []byte(`{"input":1}`), 0644)

	if !waitFor(t, func() bool { return calls.Load() > 0 }, 2*time.Second) {
		t.Error("expected a change for the new file")
	}
}

func TestIgnoresMissingAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "request.json")
	os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte(`{"input":1}`), 0644)

	var calls atomic.Int32
	w := New(target, 20*time.Millisecond, func(string) { calls.Add(1) }, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	os.WriteFile(target, nil, 0644)
	time.Sleep(150 * time.Millisecond)
	w.Stop()

	if got := calls.Load(); got != 0 {
		t.Errorf("onChange called %d times, want 0", got)
	}
}

func TestStartCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	w := New(filepath.Join(dir, "request.json"), time.Second, func(string) {}, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer w.Stop()

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected %s to be created", dir)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "request.json"), time.Second, func(string) {}, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	w.Stop()
	w.Stop()
}
