package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeaeich/nbrun/internal/runner"
)

func TestAnyRequiresGPU(t *testing.T) {
	assert.False(t, anyRequiresGPU(nil))
	assert.False(t, anyRequiresGPU([]runner.Step{
		{Number: 2, Name: "Data Processing"},
		{Number: 4, Name: "Knowledge Mixing"},
	}))
	assert.True(t, anyRequiresGPU([]runner.Step{
		{Number: 2, Name: "Data Processing"},
		{Number: 5, Name: "Model Training", RequiresGPU: true},
	}))
	assert.True(t, anyRequiresGPU(runner.KnowledgeTuningSteps))
}

func TestSelectStepsHonorsFilters(t *testing.T) {
	flags := &runFlags{steps: "2,4"}
	steps, err := selectSteps(flags)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 2, steps[0].Number)
	assert.Equal(t, 4, steps[1].Number)
	assert.False(t, anyRequiresGPU(steps))

	flags = &runFlags{skipSteps: "1,3,5,6"}
	steps, err = selectSteps(flags)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	flags = &runFlags{steps: "one"}
	_, err = selectSteps(flags)
	assert.Error(t, err)
}
