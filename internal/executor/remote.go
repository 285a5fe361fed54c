package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jaeaeich/nbrun/internal/logger"
)

// PodExecer runs a command inside a running pod. *cluster.Client
// satisfies this interface.
type PodExecer interface {
	ExecInPod(ctx context.Context, podName, namespace, container string, command []string) (stdout, stderr string, code int, err error)
}

// RemoteConfig configures the remote-exec strategy.
type RemoteConfig struct {
	Namespace string
	PodName   string
	// Container disambiguates multi-container pods; empty means the
	// pod's default container.
	Container string
}

// RemoteExecStrategy runs papermill inside an existing pod, preserving
// that pod's environment and mounts. The exec transport's return code
// is advisory only (see PodExecer), so failure detection leans on the
// error and stderr.
type RemoteExecStrategy struct {
	execer PodExecer
	cfg    RemoteConfig
}

// NewRemoteExec creates a remote-exec strategy against the given pod.
func NewRemoteExec(execer PodExecer, cfg RemoteConfig) *RemoteExecStrategy {
	if cfg.Namespace == "" {
		cfg.Namespace = "default"
	}
	return &RemoteExecStrategy{execer: execer, cfg: cfg}
}

// Name implements Strategy.
func (s *RemoteExecStrategy) Name() string {
	return "remote_papermill"
}

// Execute implements Strategy.
func (s *RemoteExecStrategy) Execute(ctx context.Context, notebookPath, outputPath string, parameters map[string]string, timeout time.Duration) Result {
	start := time.Now()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.L.Info("executing in pod", "strategy", s.Name(), "pod", s.cfg.PodName, "notebook", notebookPath)

	command := append([]string{"papermill"}, papermillArgs(notebookPath, outputPath, parameters)...)

	stdout, stderr, code, err := s.execer.ExecInPod(runCtx, s.cfg.PodName, s.cfg.Namespace, s.cfg.Container, command)
	duration := time.Since(start)

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded || duration >= timeout {
			return Result{
				Status:          StatusTimeout,
				NotebookPath:    notebookPath,
				DurationSeconds: duration.Seconds(),
				ErrorMessage:    fmt.Sprintf("execution timed out after %s", timeout),
			}
		}
		return Result{
			Status:          StatusFailed,
			NotebookPath:    notebookPath,
			DurationSeconds: duration.Seconds(),
			ErrorMessage:    execErrorMessage(err, stderr),
		}
	}

	if code != 0 {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = strings.TrimSpace(stdout)
		}
		if msg == "" {
			msg = fmt.Sprintf("papermill exited with code %d", code)
		}
		return Result{
			Status:          StatusFailed,
			NotebookPath:    notebookPath,
			OutputPath:      outputPath,
			DurationSeconds: duration.Seconds(),
			ErrorMessage:    msg,
		}
	}

	return Result{
		Status:          StatusSuccess,
		NotebookPath:    notebookPath,
		OutputPath:      outputPath,
		DurationSeconds: duration.Seconds(),
	}
}

func execErrorMessage(err error, stderr string) string {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return err.Error()
	}
	return fmt.Sprintf("%v: %s", err, msg)
}
