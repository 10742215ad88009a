package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anomredux/tokenwatch/internal/theme"
)

const gaugeCell = "━"

// RenderGauge draws a horizontal bar of percentUsed across width cells.
// Filled cells follow the usage gradient, so the bar reddens as it fills.
// Values past 100% fill the bar and keep their number.
func RenderGauge(percentUsed float64, width int) string {
	label := fmt.Sprintf(" %5.1f%%", percentUsed)
	cells := max(width-lipgloss.Width(label), 10)

	frac := min(max(percentUsed/100, 0), 1)
	filled := int(frac * float64(cells))

	var sb strings.Builder
	sb.Grow(cells * 20)
	for i := 0; i < cells; i++ {
		color := theme.ColorGaugeDim
		if i < filled {
			color = theme.MultiStopGradient(float64(i)/float64(max(cells-1, 1)), theme.UsageGradient)
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(gaugeCell))
	}
	color := theme.MultiStopGradient(frac, theme.UsageGradient)
	sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(label))
	return sb.String()
}
