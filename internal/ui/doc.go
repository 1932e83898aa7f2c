// Package ui provides terminal UI components for the pcangw-cfg CLI.
//
// This package uses Bubble Tea and Lipgloss to render terminal output for
// gateway commands. The components follow a "run once and exit" pattern:
// they print a header, a line per HTTP request and a result box, and never
// wait for input (except the explicit confirmation prompt).
//
// # Architecture
//
// The UI package provides four main component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Step list with one line per request sent to the gateway
//   - Result: Success, warning and failure boxes
//   - RequestLog: Every request of an operation, for verbose mode and failures
//
// These components are orchestrated by the OperationRunner, which receives
// steps from gateway.Client.OnStep.
//
// # Usage Pattern
//
//	runner := ui.NewOperationRunner(ui.OperationRunnerConfig{
//	    Title:     "Create CAN Channel",
//	    Command:   "pcangw-cfg create-channel 1",
//	    Params:    []ui.Param{{Key: "Gateway", Value: "192.168.1.10"}},
//	    StepNames: []string{"Log in", "Switch to expert mode"},
//	    Verbose:   verbose,
//	})
//
//	client.OnStep = runner.StepObserver()
//	_, err := runner.Run(func() (*gateway.Result, error) {
//	    return client.CreateCanChannel(1, "192.168.1.10", "10.0.0.5", 5000, 500)
//	})
//
// A result with rejected requests prints a warning box: the gateway keeps
// whatever steps it accepted, so the configuration may be partial.
//
// # Logging Integration
//
// zap logging is silent unless PCANGW_LOG_LEVEL is set, so the curated UI
// output is not interleaved with log lines.
package ui
