package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaeaeich/nbrun/internal/logger"
)

// LocalConfig configures the local papermill strategy.
type LocalConfig struct {
	// KernelName is the Jupyter kernel to use. Defaults to python3.
	KernelName string
	// Papermill is the executable to invoke. Defaults to papermill.
	Papermill string
}

// LocalStrategy executes notebooks with a local papermill subprocess.
// Useful for quick local testing and CI environments without cluster
// access. The timeout is cooperative: the subprocess is killed when
// the context deadline passes, but a child that ignores signals is not
// forcibly reaped by this layer.
type LocalStrategy struct {
	cfg LocalConfig
}

// NewLocal creates a local papermill strategy.
func NewLocal(cfg LocalConfig) *LocalStrategy {
	if cfg.KernelName == "" {
		cfg.KernelName = "python3"
	}
	if cfg.Papermill == "" {
		cfg.Papermill = "papermill"
	}
	return &LocalStrategy{cfg: cfg}
}

// Name implements Strategy.
func (s *LocalStrategy) Name() string {
	return "local_papermill"
}

// Execute implements Strategy.
func (s *LocalStrategy) Execute(ctx context.Context, notebookPath, outputPath string, parameters map[string]string, timeout time.Duration) Result {
	start := time.Now()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	bin, err := exec.LookPath(s.cfg.Papermill)
	if err != nil {
		return Result{
			Status:          StatusFailed,
			NotebookPath:    notebookPath,
			DurationSeconds: elapsedSeconds(start),
			ErrorMessage:    fmt.Sprintf("papermill not installed: %v. Install with: pip install papermill", err),
		}
	}

	logger.L.Info("executing notebook", "strategy", s.Name(), "notebook", notebookPath)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := papermillArgs(notebookPath, outputPath, parameters)
	args = append(args, "--kernel", s.cfg.KernelName, "--cwd", filepath.Dir(notebookPath))

	cmd := exec.CommandContext(runCtx, bin, args...)
	// Kernel subprocesses can hold the output pipes past the kill;
	// bound how long Wait blocks on them after cancellation.
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	duration := time.Since(start)

	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}

		if runCtx.Err() == context.DeadlineExceeded || duration >= timeout || strings.Contains(strings.ToLower(msg), "timeout") {
			return Result{
				Status:          StatusTimeout,
				NotebookPath:    notebookPath,
				OutputPath:      pathIfExists(outputPath),
				DurationSeconds: duration.Seconds(),
				ErrorMessage:    fmt.Sprintf("execution timed out after %s", timeout),
			}
		}

		return Result{
			Status:          StatusFailed,
			NotebookPath:    notebookPath,
			OutputPath:      pathIfExists(outputPath),
			DurationSeconds: duration.Seconds(),
			ErrorMessage:    msg,
		}
	}

	logger.L.Info("notebook completed", "strategy", s.Name(), "duration", duration)

	return Result{
		Status:          StatusSuccess,
		NotebookPath:    notebookPath,
		OutputPath:      outputPath,
		DurationSeconds: duration.Seconds(),
	}
}

// pathIfExists returns the path when the artifact was written, empty
// otherwise. Failed executions may still leave a partial output.
func pathIfExists(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
