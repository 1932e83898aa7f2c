package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/pcangw/internal/gateway"
)

// RequestLog is a box listing every HTTP request an operation sent.
// Shown in verbose mode and on failure, so the user can compare it with what
// the gateway's own web form would have sent.
type RequestLog struct {
	Title    string   // e.g., "Requests"
	Lines    []string // One line per request
	Width    int      // Terminal width
	MaxLines int      // Maximum lines to display (0 = unlimited)
}

// NewRequestLog builds a request log from an operation result
func NewRequestLog(result *gateway.Result) *RequestLog {
	log := &RequestLog{
		Title: "Requests",
		Width: GetTerminalWidth(),
	}
	if result == nil {
		return log
	}

	if result.SessionID != "" {
		log.Title = "Requests (session " + result.SessionID + ")"
	}
	for _, step := range result.Steps {
		log.Lines = append(log.Lines, formatRequestLine(step))
	}
	return log
}

func formatRequestLine(step gateway.StepResult) string {
	status := "no response"
	if step.StatusCode != 0 {
		status = fmt.Sprintf("%d", step.StatusCode)
	}

	marker := SuccessMarker
	if !step.OK() {
		marker = FailureMarker
	}

	line := fmt.Sprintf("%s %-4s %s → %s", marker, step.Method, step.Path, status)
	if step.IsHandshake() && step.StatusCode != 0 && step.StatusCode != 200 {
		line += " (not checked)"
	}
	return line
}

// SetWidth sets the terminal width for responsive rendering
func (l *RequestLog) SetWidth(width int) *RequestLog {
	l.Width = width
	return l
}

// SetMaxLines limits the number of lines displayed
func (l *RequestLog) SetMaxLines(max int) *RequestLog {
	l.MaxLines = max
	return l
}

// OnlyFailed keeps just the requests that failed
func (l *RequestLog) OnlyFailed() *RequestLog {
	var filtered []string
	for _, line := range l.Lines {
		if strings.HasPrefix(line, FailureMarker) {
			filtered = append(filtered, line)
		}
	}
	l.Lines = filtered
	return l
}

// Render returns the styled request log box as a string
func (l *RequestLog) Render() string {
	width := l.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := l.Lines
	if l.MaxLines > 0 && len(lines) > l.MaxLines {
		lines = append(lines[:l.MaxLines:l.MaxLines], fmt.Sprintf("... (%d more)", len(l.Lines)-l.MaxLines))
	}
	if len(lines) == 0 {
		lines = []string{"(no requests sent)"}
	}

	titleStyled := RequestLogTitleStyle.Render(l.Title)
	contentStyled := RequestLogContentStyle.Render(strings.Join(lines, "\n"))
	inner := lipgloss.JoinVertical(lipgloss.Left, titleStyled, "", contentStyled)

	return RequestLogBoxStyle(width).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (l *RequestLog) String() string {
	return l.Render()
}
