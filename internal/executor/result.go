// Package executor provides interchangeable strategies for running a
// notebook to completion, unified behind one interface.
package executor

import "time"

// Status is a notebook execution status.
type Status string

const (
	// StatusPending indicates the execution has not started.
	StatusPending Status = "pending"
	// StatusRunning indicates the execution is in flight.
	StatusRunning Status = "running"
	// StatusSuccess indicates the notebook ran to completion.
	StatusSuccess Status = "success"
	// StatusFailed indicates the notebook raised or the environment broke.
	StatusFailed Status = "failed"
	// StatusTimeout indicates the wall-clock bound was exceeded.
	StatusTimeout Status = "timeout"
	// StatusSkipped indicates the notebook was never attempted.
	StatusSkipped Status = "skipped"
)

// Terminal reports whether the status is a terminal state.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusTimeout, StatusSkipped:
		return true
	default:
		return false
	}
}

// Result is the immutable record of exactly one execution attempt.
// DurationSeconds is always populated; ErrorMessage is populated iff
// the status is failed or timeout; OutputPath is absent on early
// failure.
type Result struct {
	Status          Status            `json:"status"`
	NotebookPath    string            `json:"notebook_path"`
	OutputPath      string            `json:"output_path,omitempty"`
	DurationSeconds float64           `json:"duration_seconds"`
	ErrorMessage    string            `json:"error_message,omitempty"`
	Metrics         map[string]string `json:"metrics,omitempty"`
}

// Succeeded reports whether the execution succeeded.
func (r Result) Succeeded() bool {
	return r.Status == StatusSuccess
}

func elapsedSeconds(start time.Time) float64 {
	return time.Since(start).Seconds()
}
