package gateway

import (
	"time"

	"go.uber.org/multierr"
)

// Step names recorded in a Result
const (
	StepLogin       = "login"
	StepExpertMode  = "expert_mode"
	StepRouteAdd    = "route_add"
	StepRouteDelete = "route_delete"
	StepBitrate     = "bitrate"
)

// StepResult is the outcome of a single HTTP round trip
type StepResult struct {
	// Name is one of the Step* constants
	Name string `json:"name"`

	// Method and Path describe the request that was sent
	Method string `json:"method"`
	Path   string `json:"path"`

	// Description is a human-readable summary (e.g. "Route 5: CAN channel 3 → 10.0.0.5:5000")
	Description string `json:"description,omitempty"`

	// StatusCode is the HTTP status (0 if the request never completed)
	StatusCode int `json:"status_code"`

	// Err is a *GatewayError when the step failed
	Err error `json:"-"`

	// Error mirrors Err for JSON output
	Error string `json:"error,omitempty"`
}

// OK reports whether the step succeeded
func (s StepResult) OK() bool {
	return s.Err == nil
}

// IsHandshake reports whether the step belongs to the login handshake
func (s StepResult) IsHandshake() bool {
	return s.Name == StepLogin || s.Name == StepExpertMode
}

// Result is the outcome of one public Client operation
type Result struct {
	// Operation is the client method that produced this result
	Operation string `json:"operation"`

	// Device is the gateway address the operation targeted
	Device string `json:"device"`

	// SessionID correlates the log lines of one operation
	SessionID string `json:"session_id,omitempty"`

	// Steps lists every request in the order it was sent
	Steps []StepResult `json:"steps"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

func newResult(operation, device string) *Result {
	return &Result{
		Operation: operation,
		Device:    device,
		Steps:     []StepResult{},
		StartedAt: time.Now(),
	}
}

func (r *Result) add(step StepResult) {
	if step.Err != nil {
		step.Error = step.Err.Error()
	}
	r.Steps = append(r.Steps, step)
}

func (r *Result) finish() {
	r.Duration = time.Since(r.StartedAt)
}

// Success reports whether every configuration step succeeded.
// Handshake steps are not validated by the gateway protocol and never count.
func (r *Result) Success() bool {
	configSteps := 0
	for _, s := range r.Steps {
		if s.IsHandshake() {
			continue
		}
		configSteps++
		if !s.OK() {
			return false
		}
	}
	return configSteps > 0
}

// Failed returns the steps that did not succeed
func (r *Result) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if !s.OK() {
			failed = append(failed, s)
		}
	}
	return failed
}

// ConfigSteps returns the steps after the login handshake
func (r *Result) ConfigSteps() []StepResult {
	var steps []StepResult
	for _, s := range r.Steps {
		if !s.IsHandshake() {
			steps = append(steps, s)
		}
	}
	return steps
}

// Err combines every step error into one. Returns nil if all steps succeeded.
func (r *Result) Err() error {
	var err error
	for _, s := range r.Steps {
		err = multierr.Append(err, s.Err)
	}
	return err
}
