package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet sent
	StepRunning                    // Request in flight
	StepComplete                   // Accepted by the gateway
	StepFailed                     // Rejected, or no response
	StepSkipped                    // Not sent
)

// Step is one request of a gateway operation
type Step struct {
	Number  int        // Step number (1-based)
	Name    string     // Step description
	Status  StepStatus // Current status
	Message string     // Optional status note (e.g., "HTTP 200", "Gateway refused connection")
}

// Progress is the step list of an operation plus a bar showing how many
// requests the gateway accepted
type Progress struct {
	Label     string  // e.g., "Configuring channel 1..."
	Steps     []Step  // List of steps
	Current   int     // Step most recently started (1-based)
	Total     int     // Total steps
	Percent   float64 // Share of steps accepted or skipped (0.0 - 1.0)
	Width     int     // Terminal width
	ShowBar   bool    // Whether Render includes the bar
	ShowSteps bool    // Whether Render includes the step list
	bar       progress.Model
}

// NewProgress creates a progress display with totalSteps unnamed steps
func NewProgress(label string, totalSteps int) *Progress {
	p := &Progress{
		Label:     label,
		ShowBar:   true,
		ShowSteps: true,
	}
	for i := 0; i < totalSteps; i++ {
		p.AddStep("")
	}
	return p.SetWidth(GetTerminalWidth())
}

// SetWidth sets the terminal width and sizes the bar to fit
func (p *Progress) SetWidth(width int) *Progress {
	p.Width = width

	barWidth := width - 20 // Room for percentage and step count
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	p.bar = progress.New(
		progress.WithGradient(string(PrimaryColor), string(SuccessColor)),
		progress.WithWidth(barWidth),
	)
	return p
}

// AddStep appends a step that was not planned up front and returns its number
func (p *Progress) AddStep(name string) int {
	p.Steps = append(p.Steps, Step{Number: len(p.Steps) + 1, Name: name, Status: StepPending})
	p.Total = len(p.Steps)
	p.recount()
	return p.Total
}

// SetStepNames names the planned steps in order
func (p *Progress) SetStepNames(names []string) *Progress {
	for i, name := range names {
		if i < len(p.Steps) {
			p.Steps[i].Name = name
		}
	}
	return p
}

// UpdateStep updates a specific step's status and optional message
func (p *Progress) UpdateStep(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(p.Steps) {
		return
	}
	p.Steps[stepNumber-1].Status = status
	p.Steps[stepNumber-1].Message = message

	if status == StepRunning {
		p.Current = stepNumber
	}
	p.recount()
}

// Accepted returns the number of completed steps
func (p *Progress) Accepted() int {
	n := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete {
			n++
		}
	}
	return n
}

func (p *Progress) recount() {
	if p.Total == 0 {
		p.Percent = 0
		return
	}
	done := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped {
			done++
		}
	}
	p.Percent = float64(done) / float64(p.Total)
}

// Render returns the label, bar and step list
func (p *Progress) Render() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(ProgressLabelStyle.Render(p.Label))
		b.WriteString("\n\n")
	}

	if p.ShowBar {
		b.WriteString(p.RenderBar())
		b.WriteString("\n\n")
	}

	if p.ShowSteps {
		lines := make([]string, 0, len(p.Steps))
		for _, step := range p.Steps {
			lines = append(lines, p.renderStepLine(step))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	return b.String()
}

// RenderBar renders the bar with percentage and accepted count, e.g.
// "████░░  80%  [4/5]"
func (p *Progress) RenderBar() string {
	return lipgloss.NewStyle().
		PaddingLeft(2).
		Render(fmt.Sprintf("%s  %3.0f%%  [%d/%d]", p.bar.ViewAs(p.Percent), p.Percent*100, p.Accepted(), p.Total))
}

// renderStepLine renders a single step line:
// "  [3/5] Route 2: Local IP port 5000 → CAN channel 1   ✓  (HTTP 200)"
func (p *Progress) renderStepLine(step Step) string {
	var marker string
	var style lipgloss.Style

	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = StepMarkerSkipped, StepPendingStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  [%d/%d] ", step.Number, p.Total))
	b.WriteString(style.Render(step.Name))

	// Route descriptions run long; line markers up past them
	const markerColumn = 50
	padding := markerColumn - lipgloss.Width(step.Name)
	if padding < 1 {
		padding = 1
	}
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(style.Render(marker))

	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}

	return b.String()
}

// String implements fmt.Stringer
func (p *Progress) String() string {
	return p.Render()
}

// StepCallback is the function signature for step progress updates.
// OperationRunner feeds it from the gateway client's step observer.
type StepCallback func(stepNumber int, name string, status StepStatus, message string)
