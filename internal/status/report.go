package status

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anomredux/tokenwatch/internal/i18n"
	"github.com/anomredux/tokenwatch/internal/model"
	"github.com/anomredux/tokenwatch/internal/theme"
)

const (
	barWidth       = 40
	labelWidth     = 24
	timeLayout     = "2006-01-02 15:04"
	statusSep      = " | "
	indicatorGlyph = "●"
)

// Reporter renders snapshots for terminals. With color off it sticks to
// plain ASCII badges so the output survives pipes and status bars.
type Reporter struct {
	color  bool
	branch BranchFunc
}

type Option func(*Reporter)

// WithBranchFunc replaces the git lookup used by Statusline.
func WithBranchFunc(fn BranchFunc) Option {
	return func(r *Reporter) { r.branch = fn }
}

func NewReporter(color bool, opts ...Option) *Reporter {
	r := &Reporter{color: color, branch: GitBranch}
	for _, o := range opts {
		o(r)
	}
	return r
}

var levelBadges = map[Level]string{
	LevelGood:     "[OK]",
	LevelFair:     "[--]",
	LevelWarn:     "[!!]",
	LevelCritical: "[XX]",
}

var levelColors = map[Level]lipgloss.Color{
	LevelGood:     theme.ColorGood,
	LevelFair:     theme.ColorFair,
	LevelWarn:     theme.ColorWarn,
	LevelCritical: theme.ColorCritical,
}

func (r *Reporter) indicator(l Level) string {
	if !r.color {
		return levelBadges[l]
	}
	return lipgloss.NewStyle().Foreground(levelColors[l]).Render(indicatorGlyph)
}

// Compact renders the one-line summary:
//
//	<indicator> <percent> (<remaining>) [<time left>] [<MODEL> xN]
//
// Remaining is clamped at zero. The model suffix is dropped for 1x models.
func (r *Reporter) Compact(s Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (%s) [%s]",
		r.indicator(s.Level),
		FormatPercent(s.PercentRemaining),
		FormatNumber(s.DisplayRemaining),
		FormatRemainingTime(s.TimeLeft))
	if m := s.Resolution.Multiplier; m != 0 && m != 1 {
		fmt.Fprintf(&sb, " [%s x%s]", strings.ToUpper(string(s.Resolution.Model)), FormatMultiplier(m))
	}
	return sb.String()
}

// Statusline prefixes the compact line with the project directory name and
// git branch. A failed branch lookup is left out.
func (r *Reporter) Statusline(ctx context.Context, s Snapshot, dir string) string {
	parts := []string{filepath.Base(dir)}
	if r.branch != nil {
		if b, err := r.branch(ctx, dir); err == nil && b != "" {
			parts = append(parts, b)
		}
	}
	parts = append(parts, r.Compact(s))
	return strings.Join(parts, statusSep)
}

// Bar draws a fixed-width gauge of percent used.
func (r *Reporter) Bar(s Snapshot) string {
	used := min(max(s.PercentUsed, 0), 100)
	filled := int(used / 100 * barWidth)
	full := strings.Repeat("█", filled)
	empty := strings.Repeat("░", barWidth-filled)
	if r.color {
		full = lipgloss.NewStyle().Foreground(levelColors[s.Level]).Render(full)
		empty = theme.MutedStyle.Render(empty)
	}
	return "[" + full + empty + "]"
}

// Detail renders the multi-line report. Unlike Compact it shows the signed
// remaining budget, so overage is visible.
func (r *Reporter) Detail(s Snapshot) string {
	var sb strings.Builder
	title := i18n.T("detail_title")
	if r.color {
		title = theme.HeaderStyle.Render(title)
	}
	sb.WriteString(title + "\n")

	res := s.Resolution
	r.field(&sb, "model", fmt.Sprintf("%s (x%s, %s)",
		strings.ToUpper(string(res.Model)), FormatMultiplier(res.Multiplier), sourceLabel(res)))
	r.field(&sb, "input_raw", FormatGrouped(s.Record.InputTokens))
	r.field(&sb, "output_raw", FormatGrouped(s.Record.OutputTokens))
	r.field(&sb, "total_raw", FormatGrouped(s.RawTotal))
	r.field(&sb, "total_effective", FormatGrouped(s.EffectiveTotal)+" / "+FormatGrouped(s.Budget.MaxTokens))
	r.field(&sb, "remaining", FormatGrouped(s.Remaining))
	if s.Remaining < 0 {
		over := FormatGrouped(-s.Remaining)
		if r.color {
			over = theme.WarningStyle.Render(over)
		}
		r.field(&sb, "over_budget", over)
	}
	r.field(&sb, "percent_used", r.Bar(s)+" "+FormatPercent(s.PercentUsed))
	r.field(&sb, "percent_remaining", FormatPercent(s.PercentRemaining))
	r.field(&sb, "window_start", s.Record.WindowStart.Local().Format(timeLayout))
	r.field(&sb, "window_end", s.Record.WindowEnd.Local().Format(timeLayout))
	r.field(&sb, "time_left", FormatRemainingTime(s.TimeLeft))
	r.field(&sb, "manual_updates", fmt.Sprintf("%d", s.Record.ManualUpdates))
	r.field(&sb, "estimated_updates", fmt.Sprintf("%d", s.Record.EstimatedUpdates))
	r.field(&sb, "requests_left", FormatGrouped(s.RequestsLeft))
	r.field(&sb, "work_left", fmt.Sprintf("%.1fh (%s)", s.WorkHours, s.Tier))

	advice := s.Tier.Advice()
	if r.color {
		advice = lipgloss.NewStyle().Foreground(levelColors[s.Level]).Render(advice)
	}
	sb.WriteString(advice + "\n")
	return sb.String()
}

func (r *Reporter) field(sb *strings.Builder, key, value string) {
	label := i18n.T(key) + ":"
	// pad by display width so wide scripts line up
	if pad := labelWidth - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	if r.color {
		label = theme.MutedStyle.Render(label)
	}
	sb.WriteString(label + " " + value + "\n")
}

func sourceLabel(res model.Resolution) string {
	switch res.Source {
	case model.SourceForced:
		return i18n.T("source_forced")
	case model.SourceDetected:
		if res.Detector != "" {
			return i18n.T("source_detected") + ": " + res.Detector
		}
		return i18n.T("source_detected")
	}
	return i18n.T("source_heuristic")
}
