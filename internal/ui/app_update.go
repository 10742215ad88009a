package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/anomredux/tokenwatch/internal/i18n"
	"github.com/anomredux/tokenwatch/internal/status"
)

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case "r":
			return a, a.load
		}
		return a, nil

	case TickMsg:
		a.notifications.Expire()
		return a, tea.Batch(a.load, doTick(a.interval))

	case snapshotMsg:
		a.err = msg.err
		if msg.err != nil {
			a.notifications.SetMessage(msg.err.Error())
			return a, nil
		}
		if a.loaded && msg.snap.Tier < a.snap.Tier && msg.snap.Tier <= status.TierLow {
			a.notifications.SetMessage(msg.snap.Tier.Advice())
		}
		a.snap = msg.snap
		a.loaded = true
		a.loadedAt = msg.at
		return a, nil
	}

	return a, nil
}

// Snapshot returns the last successfully loaded snapshot.
func (a App) Snapshot() (status.Snapshot, bool) {
	return a.snap, a.loaded
}

func (a App) helpLine() string {
	line := i18n.T("watch_help")
	if a.loaded {
		line += "  ·  " + i18n.Tf("updated_at", a.loadedAt.Format("15:04:05"))
	}
	return line
}
