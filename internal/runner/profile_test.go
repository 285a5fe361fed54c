package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeaeich/nbrun/internal/errors"
)

func TestProfileByName(t *testing.T) {
	minimal, err := ProfileByName("minimal")
	require.NoError(t, err)
	assert.Equal(t, "minimal", minimal.Name)
	assert.Equal(t, 2, minimal.MaxSteps)
	assert.Equal(t, 15*time.Minute, minimal.NotebookTimeout)

	standard, err := ProfileByName("standard")
	require.NoError(t, err)
	assert.Equal(t, 256, standard.MaxSeqLength)
	assert.Equal(t, 30*time.Minute, standard.NotebookTimeout)

	extended, err := ProfileByName("extended")
	require.NoError(t, err)
	assert.Equal(t, "Qwen/Qwen2.5-0.5B-Instruct", extended.StudentModelName)
	assert.Equal(t, time.Hour, extended.NotebookTimeout)

	_, err = ProfileByName("enormous")
	assert.ErrorIs(t, err, errors.ErrUnknownProfile)
}

func TestProfileEnvVars(t *testing.T) {
	vars := MinimalProfile().EnvVars()

	assert.Equal(t, "HuggingFaceTB/SmolLM2-135M-Instruct", vars["STUDENT_MODEL_NAME"])
	assert.Equal(t, "true", vars["E2E_TEST_MODE"])
	assert.Equal(t, "2", vars["MAX_STEPS"])
	assert.Equal(t, "3", vars["MAX_SAMPLES"])
	assert.Equal(t, "128", vars["MAX_SEQ_LENGTH"])
	assert.Equal(t, "1", vars["PER_DEVICE_TRAIN_BATCH_SIZE"])
	assert.Equal(t, "2e-05", vars["LEARNING_RATE"])
}
