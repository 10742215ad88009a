package ui

import (
	"strings"

	"github.com/anomredux/tokenwatch/internal/i18n"
	"github.com/anomredux/tokenwatch/internal/theme"
)

func (a App) View() string {
	width := max(a.width, 40)

	var sb strings.Builder
	sb.WriteString(theme.GradientText(i18n.T("watch_title"), string(theme.ColorSkyBlue), string(theme.ColorMauve)))
	sb.WriteString("\n\n")

	if !a.loaded {
		if a.err != nil {
			sb.WriteString(theme.WarningStyle.Render(a.err.Error()) + "\n")
		} else {
			sb.WriteString(theme.MutedStyle.Render("...") + "\n")
		}
	} else {
		sb.WriteString(a.reporter.Compact(a.snap) + "\n\n")
		sb.WriteString(RenderGauge(a.snap.PercentUsed, width-4) + "\n\n")
		sb.WriteString(theme.PanelStyle.Render(strings.TrimRight(a.reporter.Detail(a.snap), "\n")) + "\n")
	}

	if banner := a.notifications.RenderBanner(width); banner != "" {
		sb.WriteString(banner + "\n")
	}
	sb.WriteString(theme.MutedStyle.Render(a.helpLine()))
	return sb.String()
}
