package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anomredux/tokenwatch/internal/i18n"
	"github.com/anomredux/tokenwatch/internal/status"
)

// Source produces a fresh snapshot. It is called on every refresh.
type Source func(ctx context.Context) (status.Snapshot, error)

// TickMsg triggers periodic data refresh.
type TickMsg time.Time

// snapshotMsg carries the result of one Source call.
type snapshotMsg struct {
	snap status.Snapshot
	err  error
	at   time.Time
}

const loadTimeout = 10 * time.Second

// App is the read-only live view behind `tokenwatch watch`.
type App struct {
	source   Source
	reporter *status.Reporter
	interval time.Duration

	snap     status.Snapshot
	loaded   bool
	err      error
	loadedAt time.Time

	notifications *NotificationManager

	width  int
	height int
}

func NewApp(source Source, reporter *status.Reporter, interval time.Duration) App {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return App{
		source:        source,
		reporter:      reporter,
		interval:      interval,
		notifications: NewNotificationManager(),
		width:         80,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(i18n.T("watch_title")),
		a.load,
		doTick(a.interval),
	)
}

func doTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
