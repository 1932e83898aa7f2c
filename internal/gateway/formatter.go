package gateway

import (
	"fmt"
	"strings"
	"time"
)

// Summary returns a one-line summary of the result
func (r *Result) Summary() string {
	status := "OK"
	if !r.Success() {
		status = fmt.Sprintf("FAILED (%d of %d steps)", len(r.Failed()), len(r.Steps))
	}
	return fmt.Sprintf("%s @ %s: %s", r.Operation, r.Device, status)
}

// FormatCompact returns one line per configuration step
func (r *Result) FormatCompact() string {
	var b strings.Builder

	b.WriteString(r.Summary())
	b.WriteString("\n")
	for _, s := range r.ConfigSteps() {
		b.WriteString(fmt.Sprintf("  %s %s\n", stepMarker(s), s.Description))
	}

	return b.String()
}

// FormatDetailed returns a multi-section view including the handshake and
// the failure reasons
func (r *Result) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Operation ===\n")
	b.WriteString(fmt.Sprintf("Operation: %s\n", r.Operation))
	b.WriteString(fmt.Sprintf("Gateway:   http://%s\n", r.Device))
	if r.SessionID != "" {
		b.WriteString(fmt.Sprintf("Session:   %s\n", r.SessionID))
	}
	b.WriteString(fmt.Sprintf("Duration:  %s\n", r.Duration.Round(time.Millisecond)))
	b.WriteString("\n")

	b.WriteString("=== Steps ===\n")
	for i, s := range r.Steps {
		b.WriteString(fmt.Sprintf("%2d. %s %-6s %s\n", i+1, stepMarker(s), s.Method, s.Path))
		if s.Description != "" {
			b.WriteString(fmt.Sprintf("      %s\n", s.Description))
		}
		if s.StatusCode != 0 {
			b.WriteString(fmt.Sprintf("      status %d\n", s.StatusCode))
		}
		if s.Err != nil {
			b.WriteString(fmt.Sprintf("      error: %s\n", GetShortErrorMessage(s.Err)))
		}
	}
	b.WriteString("\n")

	if r.Success() {
		b.WriteString("Result: all configuration requests accepted\n")
	} else {
		b.WriteString(fmt.Sprintf("Result: %d step(s) failed; configuration may be partial\n", len(r.Failed())))
	}

	return b.String()
}

func stepMarker(s StepResult) string {
	if s.OK() {
		return "✓"
	}
	return "✗"
}
