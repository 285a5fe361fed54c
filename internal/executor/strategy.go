package executor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jaeaeich/nbrun/internal/errors"
)

// DefaultTimeout bounds a single notebook execution when no override
// is given.
const DefaultTimeout = time.Hour

// Strategy runs one notebook to completion.
//
// Execute never returns an error: every failure mode, including
// timeouts and missing tooling, is captured into the Result so that
// pipeline aggregation needs no error handling at this boundary. On
// success a new notebook document with executed cell outputs exists at
// outputPath on the executing side.
type Strategy interface {
	// Name identifies the strategy for logging.
	Name() string
	// Execute runs the notebook at notebookPath, writing the executed
	// document to outputPath. parameters are injected as papermill
	// parameters; timeout bounds wall-clock duration.
	Execute(ctx context.Context, notebookPath, outputPath string, parameters map[string]string, timeout time.Duration) Result
}

// Kind enumerates the closed set of strategy variants. Each variant is
// constructed from its own typed configuration; there is no free-form
// keyword dispatch.
type Kind int

const (
	// KindLocal runs papermill as a local subprocess.
	KindLocal Kind = iota
	// KindKubernetesJob runs papermill in an isolated cluster job.
	KindKubernetesJob
	// KindJupyterServer drives a running Jupyter server's REST API.
	KindJupyterServer
	// KindRemoteExec runs papermill inside an existing pod.
	KindRemoteExec
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local_papermill"
	case KindKubernetesJob:
		return "kubernetes_job"
	case KindJupyterServer:
		return "jupyter_server"
	case KindRemoteExec:
		return "remote_papermill"
	default:
		return "unknown"
	}
}

// KindFromString resolves a strategy name from the CLI or a manifest.
func KindFromString(name string) (Kind, error) {
	switch name {
	case "local", "local_papermill":
		return KindLocal, nil
	case "kubernetes", "kubernetes_job":
		return KindKubernetesJob, nil
	case "jupyter", "jupyter_server":
		return KindJupyterServer, nil
	case "remote", "remote_papermill":
		return KindRemoteExec, nil
	default:
		return 0, fmt.Errorf("%w: %s", errors.ErrUnknownStrategy, name)
	}
}

// papermillArgs builds the papermill command line for a single
// execution. Parameters are flattened into -p flags in sorted order so
// the command is deterministic.
func papermillArgs(notebookPath, outputPath string, parameters map[string]string) []string {
	args := []string{notebookPath, outputPath}

	keys := make([]string, 0, len(parameters))
	for k := range parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		args = append(args, "-p", k, parameters[k])
	}
	return args
}
