package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// load runs the source off the update loop.
func (a App) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	snap, err := a.source(ctx)
	return snapshotMsg{snap: snap, err: err, at: time.Now()}
}
