// Package colors provides terminal color support for ChronoTree's
// diagnostic output.
//
// This package provides:
// - ANSI color codes for terminal output
// - Functions to colorize text by DAG node role (Content, Aggregate, loose end, bitter end)
// - Automatic color detection and fallback for non-color terminals
// - Consistent color scheme across all ChronoTree commands
package colors

import (
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"
	ColorGray    = "\033[90m"

	BrightRed     = "\033[91m"
	BrightGreen   = "\033[92m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightWhite   = "\033[97m"
)

// colorEnabled determines if color output should be used
var colorEnabled = shouldUseColor()

// shouldUseColor determines if the terminal supports colors
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if runtime.GOOS == "windows" {
		termEnv := strings.ToLower(os.Getenv("TERM"))
		wt := os.Getenv("WT_SESSION")
		vscode := os.Getenv("VSCODE_PID")

		if wt != "" || vscode != "" || strings.Contains(termEnv, "color") || strings.Contains(termEnv, "xterm") {
			return true
		}
		return false
	}

	termEnv := strings.ToLower(os.Getenv("TERM"))
	if termEnv == "dumb" || termEnv == "" {
		return false
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}

// SetColorEnabled allows manual control of color output
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// IsColorEnabled returns whether colors are currently enabled
func IsColorEnabled() bool {
	return colorEnabled
}

func colorize(text, color string) string {
	if !colorEnabled {
		return text
	}
	return color + text + ColorReset
}

// Role-based coloring for ChronoTree's Print() dump.
func ContentColor(text string) string {
	return colorize(text, BrightGreen)
}

func AggregateColor(text string) string {
	return colorize(text, BrightMagenta)
}

func LooseEndColor(text string) string {
	return colorize(text, BrightYellow)
}

func BitterEndColor(text string) string {
	return colorize(text, BrightCyan)
}

// Generic color functions
func Red(text string) string {
	return colorize(text, BrightRed)
}

func Green(text string) string {
	return colorize(text, BrightGreen)
}

func Blue(text string) string {
	return colorize(text, BrightBlue)
}

func Yellow(text string) string {
	return colorize(text, BrightYellow)
}

func Cyan(text string) string {
	return colorize(text, BrightCyan)
}

func Magenta(text string) string {
	return colorize(text, BrightMagenta)
}

func White(text string) string {
	return colorize(text, BrightWhite)
}

func Gray(text string) string {
	return colorize(text, ColorGray)
}

func Bold(text string) string {
	if !colorEnabled {
		return text
	}
	return ColorBold + text + ColorReset
}

func Dim(text string) string {
	if !colorEnabled {
		return text
	}
	return ColorDim + text + ColorReset
}

// NodeRolePrefix renders a one-character role marker for a node kind.
func NodeRolePrefix(isAggregate bool) string {
	if isAggregate {
		return AggregateColor("A")
	}
	return ContentColor("C")
}

// SectionHeader, ErrorText, SuccessText, InfoText, WarningText are the
// generic status helpers shared by every CLI command's output.
func SectionHeader(text string) string {
	return Bold(text)
}

func ErrorText(text string) string {
	return Red(text)
}

func SuccessText(text string) string {
	return Green(text)
}

func InfoText(text string) string {
	return Cyan(text)
}

func WarningText(text string) string {
	return Yellow(text)
}
