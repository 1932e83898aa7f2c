package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/pcangw/internal/gateway"
)

// ConfirmPhrase is what the user must type to confirm a destructive operation
const ConfirmPhrase = "I AGREE"

// ConfirmDangerousOperation displays a warning box on stdout and prompts the
// user to type ConfirmPhrase on stdin. Returns true if the user confirmed.
func ConfirmDangerousOperation(title string, warnings []string, disclaimer string) bool {
	return ConfirmDangerousOperationIO(os.Stdin, os.Stdout, title, warnings, disclaimer)
}

// ConfirmDangerousOperationIO is ConfirmDangerousOperation with explicit streams
func ConfirmDangerousOperationIO(in io.Reader, out io.Writer, title string, warnings []string, disclaimer string) bool {
	width := GetTerminalWidth()

	var lines []string

	titleLine := WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title))
	lines = append(lines, "")
	lines = append(lines, titleLine)
	lines = append(lines, "")

	bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
	for _, warning := range warnings {
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	if disclaimer != "" {
		disclaimerStyle := lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			Width(width - 12).
			PaddingLeft(3)
		lines = append(lines, disclaimerStyle.Render(disclaimer))
		lines = append(lines, "")
	}

	box := ResultBoxStyle(width, WarningColor).Render(strings.Join(lines, "\n"))

	_, _ = fmt.Fprintln(out, box)
	_, _ = fmt.Fprintln(out)

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", ConfirmPhrase)))

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}

	_, _ = fmt.Fprintln(out)
	if strings.TrimSpace(input) == ConfirmPhrase {
		return true
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancelStyle.Render("  Operation cancelled."))
	_, _ = fmt.Fprintln(out)
	return false
}

// RemoveRoutesWarnings lists what a route sweep does to a gateway
func RemoveRoutesWarnings(device string) []string {
	return []string{
		fmt.Sprintf("Every route (0-%d) on %s will be deleted", gateway.MaxRouteIndex, device),
		"CAN traffic to and from IP stops until routes are created again",
		"Routes created in the web interface by hand are deleted too",
	}
}

// RemoveRoutesConfirmation is a pre-configured confirmation for remove-routes
func RemoveRoutesConfirmation(in io.Reader, out io.Writer, device string) bool {
	return ConfirmDangerousOperationIO(in, out,
		"REMOVE ALL ROUTES",
		RemoveRoutesWarnings(device),
		"There is no undo. Save the channel plan with 'pcangw-cfg create-channel --save' "+
			"so 'pcangw-cfg apply' can restore it.",
	)
}
