package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecer struct {
	stdout  string
	stderr  string
	code    int
	err     error
	blocked bool

	gotPod       string
	gotNamespace string
	gotContainer string
	gotCommand   []string
}

func (f *fakeExecer) ExecInPod(ctx context.Context, podName, namespace, container string, command []string) (string, string, int, error) {
	f.gotPod = podName
	f.gotNamespace = namespace
	f.gotContainer = container
	f.gotCommand = command

	if f.blocked {
		<-ctx.Done()
		return "", "", -1, ctx.Err()
	}
	return f.stdout, f.stderr, f.code, f.err
}

func TestRemoteExecuteSuccess(t *testing.T) {
	execer := &fakeExecer{stdout: "done"}
	s := NewRemoteExec(execer, RemoteConfig{Namespace: "proj", PodName: "workbench-0", Container: "nb"})

	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", map[string]string{"MAX_STEPS": "2"}, time.Minute)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "out.ipynb", result.OutputPath)
	assert.Equal(t, "workbench-0", execer.gotPod)
	assert.Equal(t, "proj", execer.gotNamespace)
	assert.Equal(t, "nb", execer.gotContainer)

	require.NotEmpty(t, execer.gotCommand)
	assert.Equal(t, "papermill", execer.gotCommand[0])
	assert.Contains(t, execer.gotCommand, "-p")
	assert.Contains(t, execer.gotCommand, "MAX_STEPS")
}

func TestRemoteExecuteNonZeroExit(t *testing.T) {
	execer := &fakeExecer{stderr: "Exception: cell raised", code: 1}
	s := NewRemoteExec(execer, RemoteConfig{PodName: "workbench-0"})

	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", nil, time.Minute)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "cell raised")
	assert.Equal(t, "default", execer.gotNamespace)
}

func TestRemoteExecuteNonZeroExitWithoutOutput(t *testing.T) {
	execer := &fakeExecer{code: 2}
	s := NewRemoteExec(execer, RemoteConfig{PodName: "workbench-0"})

	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", nil, time.Minute)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "papermill exited with code 2")
}

func TestRemoteExecuteTransportError(t *testing.T) {
	execer := &fakeExecer{err: assert.AnError, stderr: "connection reset"}
	s := NewRemoteExec(execer, RemoteConfig{PodName: "workbench-0"})

	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", nil, time.Minute)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "connection reset")
}

func TestRemoteExecuteTimeout(t *testing.T) {
	execer := &fakeExecer{blocked: true}
	s := NewRemoteExec(execer, RemoteConfig{PodName: "workbench-0"})

	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", nil, 100*time.Millisecond)

	assert.Equal(t, StatusTimeout, result.Status)
	assert.Contains(t, result.ErrorMessage, "timed out")
}
