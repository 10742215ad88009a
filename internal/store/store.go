// Package store persists the usage record and owns the window lifecycle.
//
// All mutations go through one mutex, so the CLI and the background monitor
// can share a Store inside one process. Separate processes writing the same
// file are last-writer-wins.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/domain"
	"github.com/anomredux/tokenwatch/internal/logger"
	"github.com/anomredux/tokenwatch/internal/parser"
)

// ErrNegativeTokens rejects increments below zero.
var ErrNegativeTokens = errors.New("token counts must not be negative")

const logTimeLayout = "2006-01-02 15:04:05"

type Options struct {
	Path    string // usage record JSON
	LogPath string // append-only usage log; empty disables it
	Window  time.Duration
	Now     func() time.Time
	Logger  *zap.Logger
}

type Store struct {
	path    string
	logPath string
	window  time.Duration
	now     func() time.Time
	log     *zap.Logger

	mu sync.Mutex
}

func New(opts Options) *Store {
	if opts.Window <= 0 {
		opts.Window = domain.WindowDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		path:    opts.Path,
		logPath: opts.LogPath,
		window:  opts.Window,
		now:     opts.Now,
		log:     logger.OrNop(opts.Logger),
	}
}

func (s *Store) Path() string { return s.path }

// Load returns the current record. A missing, corrupt or expired record is
// replaced by a fresh one, which is persisted immediately. Load never fails.
func (s *Store) Load() domain.UsageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// AddUsage increments the record and, once it is saved, appends a line to
// the usage log. The returned record reflects the increment even when
// persisting failed.
func (s *Store) AddUsage(input, output int, estimated bool) (domain.UsageRecord, error) {
	if input < 0 || output < 0 {
		return domain.UsageRecord{}, fmt.Errorf("%w: input=%d output=%d", ErrNegativeTokens, input, output)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.loadLocked()
	now := s.now()
	prov := domain.ProvenanceManual
	if estimated {
		prov = domain.ProvenanceEstimated
	}
	rec.Add(input, output, prov, now)

	if err := s.write(rec); err != nil {
		return rec, err
	}
	s.appendLog(now, input, output, estimated)
	s.log.Debug("usage added",
		zap.Int("input", input),
		zap.Int("output", output),
		zap.String("provenance", string(prov)),
		zap.Int("total", rec.TotalTokens))
	return rec, nil
}

// ApplyUpdate applies a request from the update channel. Requests carrying
// no tokens leave the record untouched.
func (s *Store) ApplyUpdate(req parser.UpdateRequest) (domain.UsageRecord, error) {
	if req.Empty() {
		return s.Load(), nil
	}
	return s.AddUsage(req.Input, req.Output, req.Estimated)
}

// Reset discards the current record and starts a new window now.
func (s *Store) Reset() (domain.UsageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := domain.NewRecord(s.now(), s.window)
	if err := s.write(rec); err != nil {
		return rec, err
	}
	s.log.Info("usage window reset", zap.Time("reset_time", rec.WindowEnd))
	return rec, nil
}

// SetForcedModel pins the model used for multiplier lookup. An empty model
// clears the override. Counts are untouched.
func (s *Store) SetForcedModel(m domain.Model) (domain.UsageRecord, error) {
	if m != "" && !m.Valid() {
		return domain.UsageRecord{}, fmt.Errorf("%w: %q", domain.ErrInvalidRecord, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.loadLocked()
	rec.ForcedModel = m
	if err := s.write(rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *Store) loadLocked() domain.UsageRecord {
	now := s.now()
	rec, err := s.read()
	switch {
	case err == nil && !rec.Expired(now):
		return rec
	case err == nil:
		s.log.Info("usage window expired, starting a new one", zap.Time("reset_time", rec.WindowEnd))
	case errors.Is(err, os.ErrNotExist):
		s.log.Debug("no usage record, starting a new one", zap.String("path", s.path))
	default:
		s.log.Warn("discarding unreadable usage record", zap.String("path", s.path), zap.Error(err))
	}

	fresh := domain.NewRecord(now, s.window)
	if err := s.write(fresh); err != nil {
		s.log.Warn("persist fresh usage record", zap.Error(err))
	}
	return fresh
}

func (s *Store) read() (domain.UsageRecord, error) {
	var rec domain.UsageRecord
	data, err := os.ReadFile(s.path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	// total is derived; never trust the stored copy
	rec.TotalTokens = rec.InputTokens + rec.OutputTokens
	return rec, nil
}

// write replaces the record file atomically via a temp file and rename.
func (s *Store) write(rec domain.UsageRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode usage record: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".usage-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write usage record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace usage record: %w", err)
	}
	return nil
}

// appendLog writes one line per mutation. Failures are only logged.
func (s *Store) appendLog(now time.Time, input, output int, estimated bool) {
	if s.logPath == "" {
		return
	}
	line := FormatLogLine(now, input, output, estimated)
	f, err := os.OpenFile(s.logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		s.log.Debug("open usage log", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		s.log.Debug("append usage log", zap.Error(err))
	}
}

// FormatLogLine renders one usage log entry, newline included.
func FormatLogLine(at time.Time, input, output int, estimated bool) string {
	return fmt.Sprintf("%s | Input: %d, Output: %d, Estimated: %t\n",
		at.Format(logTimeLayout), input, output, estimated)
}
