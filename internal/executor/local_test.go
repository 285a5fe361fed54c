package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript writes an executable shell script standing in for
// papermill.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papermill")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestLocalExecuteSuccess(t *testing.T) {
	script := writeScript(t, `touch "$2"`+"\n")
	s := NewLocal(LocalConfig{Papermill: script})

	out := filepath.Join(t.TempDir(), "out.ipynb")
	result := s.Execute(context.Background(), "nb.ipynb", out, map[string]string{"MAX_STEPS": "2"}, time.Minute)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "nb.ipynb", result.NotebookPath)
	assert.Equal(t, out, result.OutputPath)
	assert.Empty(t, result.ErrorMessage)
	assert.FileExists(t, out)
}

func TestLocalExecuteFailureCapturesStderr(t *testing.T) {
	script := writeScript(t, `echo "kernel died" >&2`+"\n"+`exit 1`+"\n")
	s := NewLocal(LocalConfig{Papermill: script})

	result := s.Execute(context.Background(), "nb.ipynb", filepath.Join(t.TempDir(), "out.ipynb"), nil, time.Minute)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "kernel died")
	assert.Empty(t, result.OutputPath)
}

func TestLocalExecuteTimeout(t *testing.T) {
	script := writeScript(t, `sleep 5`+"\n")
	s := NewLocal(LocalConfig{Papermill: script})

	start := time.Now()
	result := s.Execute(context.Background(), "nb.ipynb", filepath.Join(t.TempDir(), "out.ipynb"), nil, 200*time.Millisecond)

	assert.Equal(t, StatusTimeout, result.Status)
	assert.Contains(t, result.ErrorMessage, "timed out")
	// The sleep outlives the killed shell and keeps the pipes open; the
	// wait delay must return control well before the sleep finishes.
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.GreaterOrEqual(t, result.DurationSeconds, 0.2)
}

func TestLocalExecuteMissingBinary(t *testing.T) {
	s := NewLocal(LocalConfig{Papermill: "definitely-not-papermill-xyz"})

	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", nil, time.Minute)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "papermill not installed")
	assert.Contains(t, result.ErrorMessage, "pip install papermill")
}

func TestLocalExecutePassesParameters(t *testing.T) {
	argFile := filepath.Join(t.TempDir(), "args.txt")
	script := writeScript(t, `echo "$@" > `+argFile+"\n")
	s := NewLocal(LocalConfig{Papermill: script, KernelName: "ir"})

	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", map[string]string{"alpha": "1"}, time.Minute)
	require.Equal(t, StatusSuccess, result.Status)

	data, err := os.ReadFile(argFile)
	require.NoError(t, err)
	args := string(data)
	assert.Contains(t, args, "nb.ipynb out.ipynb")
	assert.Contains(t, args, "-p alpha 1")
	assert.Contains(t, args, "--kernel ir")
}
