package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaeaeich/nbrun/internal/executor"
	"github.com/jaeaeich/nbrun/internal/logger"
)

// Runner executes workflow steps one at a time with a single strategy.
type Runner struct {
	Strategy executor.Strategy
	Profile  Profile
	Steps    []Step
	// BaseDir is prepended to each step's notebook path.
	BaseDir       string
	OutputDir     string
	StopOnFailure bool
}

// Run executes the configured steps in order and returns the report.
//
// The profile's environment variables are exported for the duration of
// the run and restored afterwards, so local kernels inherit them. Runs
// are sequential; the runner is not safe for concurrent use.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if len(r.Steps) == 0 {
		return nil, fmt.Errorf("no steps to run")
	}
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	restore := setEnv(r.Profile.EnvVars())
	defer restore()

	report := NewReport(r.Profile, r.Strategy.Name())

	logger.L.Info("starting run",
		"profile", r.Profile.Name,
		"strategy", r.Strategy.Name(),
		"steps", len(r.Steps),
	)

	for _, step := range r.Steps {
		notebookPath := step.NotebookPath
		if r.BaseDir != "" {
			notebookPath = filepath.Join(r.BaseDir, step.NotebookPath)
		}
		outputPath := filepath.Join(r.OutputDir, outputName(step))

		timeout := r.Profile.NotebookTimeout
		if step.TimeoutSeconds > 0 {
			timeout = time.Duration(step.TimeoutSeconds) * time.Second
		}

		logger.L.Info("running step", "step", step.DisplayName(), "notebook", notebookPath, "timeout", timeout)

		result := r.Strategy.Execute(ctx, notebookPath, outputPath, r.Profile.EnvVars(), timeout)

		report.Append(StepResult{
			StepNumber:      step.Number,
			StepName:        step.Name,
			Success:         result.Succeeded(),
			DurationSeconds: result.DurationSeconds,
			Error:           result.ErrorMessage,
			OutputPath:      result.OutputPath,
		})

		if result.Succeeded() {
			logger.L.Info("step passed", "step", step.DisplayName(), "duration", fmt.Sprintf("%.1fs", result.DurationSeconds))
			continue
		}

		logger.L.Error("step failed", "step", step.DisplayName(), "status", result.Status, "error", result.ErrorMessage)
		if r.StopOnFailure {
			logger.L.Warn("stopping run", "remaining_steps", len(r.Steps)-len(report.Results))
			break
		}
	}

	report.Finalize()
	return report, nil
}

// setEnv exports vars and returns a function that restores the prior
// environment, including unsetting variables that did not exist.
func setEnv(vars map[string]string) func() {
	type prior struct {
		value  string
		wasSet bool
	}

	saved := make(map[string]prior, len(vars))
	for k, v := range vars {
		old, ok := os.LookupEnv(k)
		saved[k] = prior{value: old, wasSet: ok}
		os.Setenv(k, v)
	}

	return func() {
		for k, p := range saved {
			if p.wasSet {
				os.Setenv(k, p.value)
			} else {
				os.Unsetenv(k)
			}
		}
	}
}

func outputName(step Step) string {
	name := strings.ReplaceAll(strings.ToLower(step.Name), " ", "_")
	return fmt.Sprintf("executed_%02d_%s.ipynb", step.Number, name)
}
