package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for pcangw-cfg output
var (
	PrimaryColor = lipgloss.Color("#2BB3C0") // Teal - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - accepted requests
	ErrorColor   = lipgloss.Color("#FF5555") // Red - rejected requests, transport errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - partial configuration, confirmations
	MutedColor   = lipgloss.Color("#6C6C6C") // Gray - paths, secondary info
	TextColor    = lipgloss.Color("#F2F2F2") // Off-white - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	DefaultPadding   = 2   // Horizontal padding inside result boxes
)

// Step status markers
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "○"
	StepMarkerSkipped  = "⊘"
	SuccessMarker      = "✓"
	FailureMarker      = "✗"
	WarningMarker      = "⚠"
)

// Header styles
var (
	// HeaderTitleStyle is for the operation title (e.g., "CREATE CAN CHANNEL")
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the command path (e.g., "pcangw-cfg create-channel")
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamKeyStyle is for parameter keys (e.g., "Gateway:")
	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamValueStyle is for parameter values (e.g., "192.168.1.10")
	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)
)

// Step list styles
var (
	ProgressLabelStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				PaddingLeft(2)

	StepCompleteStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	StepRunningStyle  = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	StepPendingStyle  = lipgloss.NewStyle().Foreground(MutedColor)

	// StepNoteStyle is for the status note after a step, e.g. "(HTTP 200)"
	StepNoteStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)

// Result box styles
var (
	SuccessTitleStyle = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	WarningTitleStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	ErrorTitleStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	ErrorMessageStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	// ResultKeyStyle pads detail keys to a common column
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	ResultValueStyle = lipgloss.NewStyle().Foreground(TextColor)

	TroubleshootingTitleStyle = lipgloss.NewStyle().Foreground(MutedColor).Bold(true)
	TroubleshootingItemStyle  = lipgloss.NewStyle().Foreground(MutedColor)

	// RequestLogTitleStyle is for the "Requests" header of the request log
	RequestLogTitleStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Bold(true)

	RequestLogContentStyle = lipgloss.NewStyle().Foreground(TextColor)
)

// GetTerminalWidth returns the current terminal width, clamped to
// MinTerminalWidth..MaxContentWidth
func GetTerminalWidth() int {
	width, _ := GetTerminalSize()
	return width
}

// GetTerminalSize returns the current terminal width and height
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, 24
	}
	return clampWidth(width), height
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// HeaderBorderStyle returns the border style for command headers
func HeaderBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2) // Border characters
}

// ResultBoxStyle returns the double-bordered box used for success, warning
// and failure results, and for confirmations
func ResultBoxStyle(width int, color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(clampWidth(width)-2).
		Padding(0, DefaultPadding)
}

// RequestLogBoxStyle returns the border style for the request log
func RequestLogBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(width - 4).
		Padding(0, 1)
}

// TroubleshootingBoxStyle returns the inner box listing troubleshooting tips
func TroubleshootingBoxStyle(width int) lipgloss.Style {
	inner := width - 12 // Indented within the result box
	if inner < 40 {
		inner = 40
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(inner).
		Padding(0, 1).
		MarginLeft(3)
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int, char string) string {
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat(char, width))
}
