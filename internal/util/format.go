package util

import (
	"fmt"
	"strings"
)

// FormatNumber abbreviates large counts.
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatDuration renders seconds as "Xh YYm", or "YYm" below one hour.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		return "-" + FormatDuration(-seconds)
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatHours renders seconds as decimal hours.
func FormatHours(seconds int64) string {
	return fmt.Sprintf("%.2fh", float64(seconds)/3600)
}

// Percentage returns part as a percentage of total, or 0 when total is not positive.
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// FormatPercentage renders a percentage with one decimal.
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Indent returns depth levels of two-space indentation.
func Indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("  ", depth)
}
