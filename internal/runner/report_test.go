package runner

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFinalize(t *testing.T) {
	report := NewReport(MinimalProfile(), "local_papermill")
	report.Append(StepResult{StepNumber: 1, StepName: "a", Success: true, DurationSeconds: 1})
	report.Append(StepResult{StepNumber: 2, StepName: "b", Success: false, DurationSeconds: 2, Error: "boom"})
	report.Append(StepResult{StepNumber: 3, StepName: "c", Success: true, DurationSeconds: 3})
	report.Finalize()

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Passed)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.GreaterOrEqual(t, report.Summary.DurationSeconds, 0.0)
	assert.False(t, report.Passed())
}

func TestReportPassed(t *testing.T) {
	report := NewReport(MinimalProfile(), "local_papermill")
	report.Finalize()
	assert.False(t, report.Passed(), "an empty run must not count as passing")

	report = NewReport(MinimalProfile(), "local_papermill")
	report.Append(StepResult{StepNumber: 1, Success: true})
	report.Finalize()
	assert.True(t, report.Passed())
}

func TestReportWrite(t *testing.T) {
	profile := StandardProfile()
	report := NewReport(profile, "kubernetes_job")
	report.Append(StepResult{StepNumber: 1, StepName: "Data Processing", Success: true, DurationSeconds: 12.5})
	report.Finalize()

	dir := t.TempDir()
	path, err := report.Write(dir)
	require.NoError(t, err)
	assert.Contains(t, path, "e2e_report.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "standard", decoded.Profile)
	assert.Equal(t, "kubernetes_job", decoded.Strategy)
	assert.Equal(t, profile.StudentModelName, decoded.Config.StudentModel)
	require.Len(t, decoded.Results, 1)
	assert.Equal(t, "Data Processing", decoded.Results[0].StepName)
	assert.Equal(t, 1, decoded.Summary.Passed)
}
