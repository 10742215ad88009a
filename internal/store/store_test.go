package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anomredux/tokenwatch/internal/domain"
	"github.com/anomredux/tokenwatch/internal/parser"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T) (*Store, *fakeClock, string) {
	t.Helper()
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC)}
	s := New(Options{
		Path:    filepath.Join(dir, "token_usage.json"),
		LogPath: filepath.Join(dir, "claude_usage.log"),
		Window:  domain.WindowDuration,
		Now:     clock.Now,
	})
	return s, clock, dir
}

func readRecord(t *testing.T, path string) domain.UsageRecord {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec domain.UsageRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	return rec
}

func TestLoad_MissingFileCreatesAndPersists(t *testing.T) {
	s, clock, _ := newTestStore(t)

	rec := s.Load()

	assert.Zero(t, rec.TotalTokens)
	assert.True(t, rec.WindowStart.Equal(clock.Now()))
	assert.Equal(t, 5*time.Hour, rec.WindowEnd.Sub(rec.WindowStart))

	onDisk := readRecord(t, s.Path())
	assert.True(t, onDisk.WindowStart.Equal(rec.WindowStart), "fresh record should be persisted immediately")
}

func TestLoad_CorruptFileStartsOver(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"empty file", ""},
		{"missing window", `{"input": 10, "output": 5, "total": 15}`},
		{"negative counts", `{"input": -1, "output": 0, "start_time": "2026-02-21T09:00:00Z", "reset_time": "2026-02-21T14:00:00Z"}`},
		{"wrong types", `{"input": "lots", "start_time": "2026-02-21T09:00:00Z", "reset_time": "2026-02-21T14:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestStore(t)
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0644))

			rec := s.Load()

			assert.Zero(t, rec.InputTokens)
			assert.Zero(t, rec.TotalTokens)
			assert.NoError(t, readRecord(t, s.Path()).Validate())
		})
	}
}

func TestLoad_WindowRollover(t *testing.T) {
	s, clock, _ := newTestStore(t)
	_, err := s.AddUsage(1000, 500, false)
	require.NoError(t, err)

	clock.Advance(5*time.Hour + time.Second)
	rec := s.Load()

	assert.Zero(t, rec.InputTokens)
	assert.Zero(t, rec.OutputTokens)
	assert.Zero(t, rec.TotalTokens)
	assert.Zero(t, rec.ManualUpdates)
	assert.True(t, rec.WindowStart.Equal(clock.Now()), "new window should start now")
}

func TestLoad_ExactlyAtResetRollsOver(t *testing.T) {
	s, clock, _ := newTestStore(t)
	_, err := s.AddUsage(10, 10, false)
	require.NoError(t, err)

	clock.Advance(5 * time.Hour)
	assert.Zero(t, s.Load().TotalTokens)
}

func TestLoad_RecomputesStoredTotal(t *testing.T) {
	s, _, _ := newTestStore(t)
	content := `{"input": 100, "output": 50, "total": 9999,
		"start_time": "2026-02-21T09:00:00Z", "reset_time": "2026-02-21T14:00:00Z"}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0644))

	rec := s.Load()
	assert.Equal(t, 150, rec.TotalTokens)
}

func TestRoundTrip(t *testing.T) {
	s, clock, _ := newTestStore(t)
	_, err := s.AddUsage(1200, 300, true)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	want, err := s.SetForcedModel(domain.ModelHaiku)
	require.NoError(t, err)

	got := New(Options{Path: s.Path(), Now: clock.Now}).Load()

	assert.Equal(t, want.InputTokens, got.InputTokens)
	assert.Equal(t, want.OutputTokens, got.OutputTokens)
	assert.Equal(t, want.TotalTokens, got.TotalTokens)
	assert.Equal(t, want.ManualUpdates, got.ManualUpdates)
	assert.Equal(t, want.EstimatedUpdates, got.EstimatedUpdates)
	assert.Equal(t, want.ForcedModel, got.ForcedModel)
	assert.True(t, want.WindowStart.Equal(got.WindowStart))
	assert.True(t, want.WindowEnd.Equal(got.WindowEnd))
	assert.True(t, want.LastUpdated.Equal(got.LastUpdated))
}

func TestAddUsage_FreshStore(t *testing.T) {
	s, clock, _ := newTestStore(t)
	clock.Advance(time.Minute)

	rec, err := s.AddUsage(1000, 500, false)
	require.NoError(t, err)

	assert.Equal(t, 1000, rec.InputTokens)
	assert.Equal(t, 500, rec.OutputTokens)
	assert.Equal(t, 1500, rec.TotalTokens)
	assert.Equal(t, 1, rec.ManualUpdates)
	assert.Zero(t, rec.EstimatedUpdates)
	assert.True(t, rec.LastUpdated.Equal(clock.Now()))

	onDisk := readRecord(t, s.Path())
	assert.Equal(t, 1500, onDisk.TotalTokens)
	assert.Equal(t, 1, onDisk.ManualUpdates)
}

func TestAddUsage_EstimatedCounter(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.AddUsage(10, 0, true)
	require.NoError(t, err)
	rec, err := s.AddUsage(0, 20, true)
	require.NoError(t, err)

	assert.Equal(t, 2, rec.EstimatedUpdates)
	assert.Zero(t, rec.ManualUpdates)
	assert.Equal(t, rec.InputTokens+rec.OutputTokens, rec.TotalTokens)
}

func TestAddUsage_RejectsNegative(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.AddUsage(-1, 10, false)
	assert.ErrorIs(t, err, ErrNegativeTokens)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr), "rejected update must not touch the file")
}

func TestAddUsage_AppendsLog(t *testing.T) {
	s, _, dir := newTestStore(t)

	_, err := s.AddUsage(1000, 500, false)
	require.NoError(t, err)
	_, err = s.AddUsage(7, 3, true)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "claude_usage.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-02-21 10:00:00 | Input: 1000, Output: 500, Estimated: false", lines[0])
	assert.Equal(t, "2026-02-21 10:00:00 | Input: 7, Output: 3, Estimated: true", lines[1])
}

func TestAddUsage_LogFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	s := New(Options{
		Path:    filepath.Join(dir, "token_usage.json"),
		LogPath: filepath.Join(dir, "missing", "dir", "usage.log"),
	})

	rec, err := s.AddUsage(5, 5, false)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.TotalTokens)
}

func TestAddUsage_NoLogLineWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	logPath := filepath.Join(dir, "claude_usage.log")
	s := New(Options{
		Path:    filepath.Join(blocker, "token_usage.json"),
		LogPath: logPath,
	})

	_, err := s.AddUsage(5, 5, false)

	assert.Error(t, err)
	assert.NoFileExists(t, logPath)
}

func TestAddUsage_Concurrent(t *testing.T) {
	s, _, _ := newTestStore(t)

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := s.AddUsage(w+1, 1, i%2 == 0)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	// sum over workers of perWorker*(w+1) input plus perWorker*1 output
	wantInput := perWorker * (workers * (workers + 1) / 2)
	wantOutput := perWorker * workers

	rec := s.Load()
	assert.Equal(t, wantInput, rec.InputTokens)
	assert.Equal(t, wantOutput, rec.OutputTokens)
	assert.Equal(t, wantInput+wantOutput, rec.TotalTokens)
	assert.Equal(t, workers*perWorker, rec.Updates())
}

func TestReset(t *testing.T) {
	s, clock, _ := newTestStore(t)
	_, err := s.AddUsage(100, 100, false)
	require.NoError(t, err)
	_, err = s.SetForcedModel(domain.ModelOpus)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	rec, err := s.Reset()
	require.NoError(t, err)

	assert.Zero(t, rec.TotalTokens)
	assert.Empty(t, rec.ForcedModel)
	assert.True(t, rec.WindowStart.Equal(clock.Now()))
	assert.Equal(t, 5*time.Hour, rec.WindowEnd.Sub(rec.WindowStart))
	assert.Zero(t, readRecord(t, s.Path()).TotalTokens)
}

func TestSetForcedModel(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.AddUsage(300, 200, false)
	require.NoError(t, err)

	rec, err := s.SetForcedModel(domain.ModelSonnet)
	require.NoError(t, err)
	assert.Equal(t, domain.ModelSonnet, rec.ForcedModel)
	assert.Equal(t, 500, rec.TotalTokens, "forcing a model must not change counts")
	assert.Equal(t, 1, rec.ManualUpdates)

	rec, err = s.SetForcedModel("")
	require.NoError(t, err)
	assert.Empty(t, rec.ForcedModel)

	_, err = s.SetForcedModel("gpt")
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestApplyUpdate(t *testing.T) {
	s, _, _ := newTestStore(t)

	rec, err := s.ApplyUpdate(parser.UpdateRequest{Input: 40, Output: 2, Estimated: true})
	require.NoError(t, err)
	assert.Equal(t, 42, rec.TotalTokens)
	assert.Equal(t, 1, rec.EstimatedUpdates)

	rec, err = s.ApplyUpdate(parser.UpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 42, rec.TotalTokens)
	assert.Equal(t, 1, rec.Updates(), "empty request must not count as an update")
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	s, _, dir := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.AddUsage(1, 1, false)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestFormatLogLine(t *testing.T) {
	at := time.Date(2026, 2, 21, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "2026-02-21 09:05:07 | Input: 1, Output: 2, Estimated: true\n", FormatLogLine(at, 1, 2, true))
}
