package util

import "fmt"

// Terminal color sequences
const (
	ColorReset   = "\033[0m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
)

// Colorize wraps text in color when enabled.
func Colorize(text, color string, enabled bool) string {
	if !enabled || color == "" {
		return text
	}
	return fmt.Sprintf("%s%s%s", color, text, ColorReset)
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string, enabled bool) string {
	return Colorize(title, ColorBold+ColorMagenta, enabled)
}

// FormatErrorTitle formats error section titles (Red + Bold)
func FormatErrorTitle(title string, enabled bool) string {
	return Colorize(title, ColorBold+ColorRed, enabled)
}

// FormatSuccess formats a success message (Green)
func FormatSuccess(text string, enabled bool) string {
	return Colorize(text, ColorGreen, enabled)
}
