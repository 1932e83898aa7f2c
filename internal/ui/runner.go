package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/pcangw/internal/gateway"
)

// OperationRunnerConfig holds configuration for one gateway operation
type OperationRunnerConfig struct {
	Title     string    // Operation title (e.g., "Create CAN Channel")
	Command   string    // Full command (e.g., "pcangw-cfg create-channel 1")
	Params    []Param   // Parameters to display in header
	StepNames []string  // Expected steps; requests beyond these are added as they arrive
	Verbose   bool      // Whether to show the request log on success
	Output    io.Writer // Output writer (default: os.Stdout)
}

// OperationRunner orchestrates the UI for a gateway operation.
// It manages the header → progress → result flow. Progress is fed by the
// gateway client's step observer.
type OperationRunner struct {
	config   OperationRunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
	next     int
}

// NewOperationRunner creates a new runner for a gateway operation
func NewOperationRunner(config OperationRunnerConfig) *OperationRunner {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	width := GetTerminalWidth()

	header := NewHeader(config.Title, config.Command, config.Params)
	header.SetWidth(width)

	progress := NewProgress("", len(config.StepNames))
	progress.SetWidth(width)
	progress.SetStepNames(config.StepNames)

	return &OperationRunner{
		config:   config,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// SetWidth overrides the detected terminal width
func (r *OperationRunner) SetWidth(width int) *OperationRunner {
	r.width = width
	r.header.SetWidth(width)
	r.progress.SetWidth(width)
	return r
}

// Progress returns the step list as it stands
func (r *OperationRunner) Progress() *Progress {
	return r.progress
}

// Operation is the function signature for the gateway call being run
type Operation func() (*gateway.Result, error)

// Run prints the header, executes the operation and prints the outcome.
// The returned error is the operation's error or, when it finished with
// rejected requests, the combined step errors.
func (r *OperationRunner) Run(operation Operation) (*gateway.Result, error) {
	r.PrintHeader()
	result, err := operation()
	return result, r.Finish(result, err)
}

// PrintHeader prints the command header
func (r *OperationRunner) PrintHeader() {
	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)
}

// StepObserver returns a callback for gateway.Client.OnStep that prints one
// progress line per request
func (r *OperationRunner) StepObserver() func(gateway.StepResult) {
	callback := r.StepCallback()
	return func(step gateway.StepResult) {
		r.next++
		number := r.next
		name := stepLabel(step)
		if number > len(r.progress.Steps) {
			number = r.progress.AddStep(name)
		}

		status := StepComplete
		if !step.OK() {
			status = StepFailed
		}
		callback(number, name, status, stepMessage(step))
	}
}

// StepCallback returns a callback that updates and prints progress lines
func (r *OperationRunner) StepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}

		if name != "" && r.progress.Steps[stepNumber-1].Name == "" {
			r.progress.Steps[stepNumber-1].Name = name
		}

		r.progress.UpdateStep(stepNumber, status, message)

		step := r.progress.Steps[stepNumber-1]
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, r.progress.renderStepLine(step))
		case StepRunning:
			// Overwritten when the step completes
			_, _ = fmt.Fprint(r.output, r.progress.renderStepLine(step)+"\r")
		}
	}
}

// Finish prints the result box for an operation that has returned
func (r *OperationRunner) Finish(result *gateway.Result, err error) error {
	_, _ = fmt.Fprintln(r.output)

	switch {
	case err != nil:
		r.printFailure(result, err)
		return err
	case result == nil:
		return nil
	case result.Success():
		r.printBar()
		r.printSuccess(result)
		return nil
	default:
		r.printBar()
		r.printPartial(result)
		return result.Err()
	}
}

// printBar prints the share of requests accepted, once they have all been sent
func (r *OperationRunner) printBar() {
	if r.progress.Total == 0 {
		return
	}
	_, _ = fmt.Fprintln(r.output, r.progress.RenderBar())
	_, _ = fmt.Fprintln(r.output)
}

func (r *OperationRunner) printSuccess(result *gateway.Result) {
	box := NewSuccessResult(r.config.Title+" complete", resultDetails(result))
	box.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, box.Render())

	if r.config.Verbose {
		r.printRequestLog(result)
	}
}

func (r *OperationRunner) printPartial(result *gateway.Result) {
	details := resultDetails(result)
	for _, step := range result.Failed() {
		details = append(details, Param{Key: "Failed", Value: stepLabel(step) + " (" + stepMessage(step) + ")"})
	}

	box := NewWarningResult(r.config.Title+" incomplete, configuration may be partial", details)
	if failed := result.Failed(); len(failed) > 0 {
		box.Troubleshooting = TroubleshootingTips(failed[0].Err)
	}
	box.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, box.Render())

	r.printRequestLog(result)
}

func (r *OperationRunner) printFailure(result *gateway.Result, err error) {
	box := NewFailureResult(r.config.Title+" failed", err, TroubleshootingTips(err))
	if result != nil {
		box.Details = resultDetails(result)
	}
	box.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, box.Render())

	if result != nil && len(result.Steps) > 0 {
		r.printRequestLog(result)
	}
}

func (r *OperationRunner) printRequestLog(result *gateway.Result) {
	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, NewRequestLog(result).SetWidth(r.width).Render())
}

func resultDetails(result *gateway.Result) []Param {
	details := []Param{
		{Key: "Operation", Value: result.Operation},
		{Key: "Gateway", Value: result.Device},
	}
	if result.SessionID != "" {
		details = append(details, Param{Key: "Session", Value: result.SessionID})
	}
	config := result.ConfigSteps()
	accepted := 0
	for _, s := range config {
		if s.OK() {
			accepted++
		}
	}
	details = append(details,
		Param{Key: "Steps", Value: fmt.Sprintf("%d of %d accepted", accepted, len(config))},
		Param{Key: "Duration", Value: result.Duration.Round(time.Millisecond).String()},
	)
	return details
}

func stepLabel(step gateway.StepResult) string {
	switch step.Name {
	case gateway.StepLogin:
		return "Log in"
	case gateway.StepExpertMode:
		return "Switch to expert mode"
	}
	if step.Description != "" {
		return step.Description
	}
	return step.Method + " " + step.Path
}

func stepMessage(step gateway.StepResult) string {
	if step.Err != nil {
		return gateway.GetShortErrorMessage(step.Err)
	}
	if step.StatusCode != 0 {
		return "HTTP " + strconv.Itoa(step.StatusCode)
	}
	return ""
}

// TroubleshootingTips turns the troubleshooting hint for err into bullet items
func TroubleshootingTips(err error) []string {
	if err == nil {
		return nil
	}

	var tips []string
	for _, line := range strings.Split(gateway.GetTroubleshootingHint(err), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		tips = append(tips, strings.TrimPrefix(line, "• "))
	}
	return tips
}

// --- Simple helper functions for commands that don't need a full OperationRunner ---

// PrintCommandHeader prints a styled command header
func PrintCommandHeader(title, command string, params []Param) {
	NewPrinter(nil).PrintHeader(title, command, params)
}

// PrintSuccess prints a styled success result
func PrintSuccess(title string, details []Param) {
	p := NewPrinter(nil)
	p.Newline()
	p.PrintSuccess(title, details)
}

// PrintFailure prints a styled failure result
func PrintFailure(title string, err error, troubleshooting []string) {
	p := NewPrinter(nil)
	p.Newline()
	p.PrintError(title, err, troubleshooting)
}

// PrintWarning prints a styled warning result
func PrintWarning(title string, details []Param) {
	p := NewPrinter(nil)
	p.Newline()
	p.PrintWarning(title, details)
}

// PrintPleaseWait prints a styled "please wait" message for long-running operations.
// The message parameter should describe what's happening, e.g., "Removing all routes".
// The duration hint helps set user expectations, e.g., "up to 30 seconds".
func PrintPleaseWait(w io.Writer, message string, durationHint string) {
	if w == nil {
		w = os.Stdout
	}

	style := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true).
		PaddingLeft(2)

	hintStyle := lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	line := style.Render("⏳ " + message)
	if durationHint != "" {
		line += " " + hintStyle.Render("("+durationHint+")")
	}
	line += style.Render("...")

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, line)
	_, _ = fmt.Fprintln(w)
}
