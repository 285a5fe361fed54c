package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StepResult is the per-step record of a run.
type StepResult struct {
	StepNumber      int     `json:"step_number"`
	StepName        string  `json:"step_name"`
	Success         bool    `json:"success"`
	DurationSeconds float64 `json:"duration_seconds"`
	Error           string  `json:"error,omitempty"`
	OutputPath      string  `json:"output_path,omitempty"`
}

// ReportConfig records the model selection the run was made with.
type ReportConfig struct {
	StudentModel string `json:"student_model"`
	TeacherModel string `json:"teacher_model"`
}

// ReportSummary aggregates the step results.
type ReportSummary struct {
	Total           int     `json:"total"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Report is the JSON run report written after every pipeline run.
type Report struct {
	Timestamp string        `json:"timestamp" bson:"timestamp"`
	Profile   string        `json:"profile" bson:"profile"`
	Strategy  string        `json:"strategy" bson:"strategy"`
	Config    ReportConfig  `json:"config" bson:"config"`
	Results   []StepResult  `json:"results" bson:"results"`
	Summary   ReportSummary `json:"summary" bson:"summary"`

	started time.Time
}

// NewReport starts a report for the given profile and strategy.
func NewReport(p Profile, strategyName string) *Report {
	now := time.Now()
	return &Report{
		Timestamp: now.UTC().Format(time.RFC3339),
		Profile:   p.Name,
		Strategy:  strategyName,
		Config: ReportConfig{
			StudentModel: p.StudentModelName,
			TeacherModel: p.TeacherModelName,
		},
		Results: []StepResult{},
		started: now,
	}
}

// Append records one step outcome.
func (r *Report) Append(res StepResult) {
	r.Results = append(r.Results, res)
}

// Finalize computes the summary. Call once after the last step.
func (r *Report) Finalize() {
	summary := ReportSummary{
		Total:           len(r.Results),
		DurationSeconds: time.Since(r.started).Seconds(),
	}
	for _, res := range r.Results {
		if res.Success {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	r.Summary = summary
}

// Passed reports whether every step succeeded.
func (r *Report) Passed() bool {
	return r.Summary.Failed == 0 && r.Summary.Total > 0
}

// Write persists the report as indented JSON under dir.
func (r *Report) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(dir, "e2e_report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
