package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anomredux/tokenwatch/internal/domain"
	"github.com/anomredux/tokenwatch/internal/i18n"
	"github.com/anomredux/tokenwatch/internal/model"
	"github.com/anomredux/tokenwatch/internal/status"
)

var (
	start  = time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC)
	budget = status.Budget{MaxTokens: 220_000, TokensPerRequest: 3000, RequestsPerHour: 12}
)

func snapshotWith(total int) status.Snapshot {
	rec := domain.NewRecord(start, domain.WindowDuration)
	rec.Add(total, 0, domain.ProvenanceManual, start)
	res := model.Resolution{Model: domain.ModelSonnet, Multiplier: 1, Source: model.SourceHeuristic}
	return status.Compute(rec, res, budget, start.Add(time.Hour))
}

func fixedSource(s status.Snapshot, err error) Source {
	return func(context.Context) (status.Snapshot, error) { return s, err }
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	next, ok := m.(App)
	require.True(t, ok)
	return next, cmd
}

func TestApp_RendersLoadedSnapshot(t *testing.T) {
	i18n.SetLanguage("en")
	reporter := status.NewReporter(false)
	snap := snapshotWith(1000)
	a := NewApp(fixedSource(snap, nil), reporter, time.Minute)

	a, _ = update(t, a, a.load())

	got, ok := a.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 1000, got.RawTotal)

	view := a.View()
	assert.Contains(t, view, reporter.Compact(snap))
	assert.Contains(t, view, "Next reset")
	assert.Contains(t, view, "q quit")
}

func TestApp_ShowsLoadError(t *testing.T) {
	a := NewApp(fixedSource(status.Snapshot{}, errors.New("permission denied")), status.NewReporter(false), time.Minute)

	a, _ = update(t, a, a.load())

	_, ok := a.Snapshot()
	assert.False(t, ok)
	assert.Contains(t, a.View(), "permission denied")
}

func TestApp_QuitKeys(t *testing.T) {
	a := NewApp(fixedSource(snapshotWith(0), nil), status.NewReporter(false), time.Minute)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := update(t, a, key)
		require.NotNil(t, cmd, "key %s", key)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestApp_TickReloads(t *testing.T) {
	a := NewApp(fixedSource(snapshotWith(0), nil), status.NewReporter(false), time.Minute)
	_, cmd := update(t, a, TickMsg(time.Now()))
	assert.NotNil(t, cmd)
}

func TestApp_NotifiesWhenTierDrops(t *testing.T) {
	i18n.SetLanguage("en")
	a := NewApp(fixedSource(snapshotWith(0), nil), status.NewReporter(false), time.Minute)

	a, _ = update(t, a, snapshotMsg{snap: snapshotWith(0), at: time.Now()})
	assert.Nil(t, a.notifications.Active())

	critical := snapshotWith(210_000)
	require.Equal(t, status.TierCritical, critical.Tier)
	a, _ = update(t, a, snapshotMsg{snap: critical, at: time.Now()})

	n := a.notifications.Active()
	require.NotNil(t, n)
	assert.Equal(t, critical.Tier.Advice(), n.Message)
}

func TestNotificationManager_Expires(t *testing.T) {
	now := start
	nm := NewNotificationManager()
	nm.now = func() time.Time { return now }

	nm.SetMessage("hello")
	assert.NotNil(t, nm.Active())
	assert.Contains(t, nm.RenderBanner(40), "hello")

	now = now.Add(6 * time.Second)
	nm.Expire()
	assert.Nil(t, nm.Active())
	assert.Empty(t, nm.RenderBanner(40))
}

func TestRenderGauge(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		label   string
	}{
		{"empty", 0, "0.0%"},
		{"half", 50, "50.0%"},
		{"overdrawn", 227.27, "227.3%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderGauge(tt.percent, 50)
			assert.Contains(t, out, tt.label)
			assert.Positive(t, strings.Count(out, gaugeCell))
		})
	}
}

func TestRenderGauge_MinimumWidth(t *testing.T) {
	assert.Equal(t, 10, strings.Count(RenderGauge(10, 0), gaugeCell))
}
