package status

import (
	"fmt"
	"strconv"
	"time"

	"github.com/anomredux/tokenwatch/internal/i18n"
)

// FormatNumber renders a token count with a K/M suffix (45000 → "45K",
// 1200000 → "1.2M"). Negative counts keep their sign.
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.0fK", float64(n)/1_000)
	}
	return strconv.Itoa(n)
}

// FormatGrouped formats an integer with comma separators (e.g. 1,234,567).
func FormatGrouped(n int) string {
	if n < 0 {
		return "-" + FormatGrouped(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// FormatPercent uses two decimals below 10% and one otherwise, so the last
// few percent stay visible.
func FormatPercent(p float64) string {
	if p < 10 {
		return fmt.Sprintf("%.2f%%", p)
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatRemainingTime renders "2h15m" or "45m". Anything at or below zero
// is the localized resetting marker.
func FormatRemainingTime(d time.Duration) string {
	if d <= 0 {
		return i18n.T("resetting")
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatMultiplier prints the shortest exact form: 2.5, 0.3, 1.
func FormatMultiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
