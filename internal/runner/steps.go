// Package runner drives an ordered set of workflow steps through an
// execution strategy and aggregates the outcome into a report.
package runner

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jaeaeich/nbrun/internal/errors"
)

// Step is a single notebook step in a workflow.
type Step struct {
	Number          int      `yaml:"number"`
	Name            string   `yaml:"name"`
	NotebookPath    string   `yaml:"notebook"`
	ExpectedOutputs []string `yaml:"expected_outputs,omitempty"`
	RequiresGPU     bool     `yaml:"requires_gpu,omitempty"`
	// TimeoutSeconds overrides the profile's notebook timeout.
	TimeoutSeconds int `yaml:"timeout,omitempty"`
}

// DisplayName returns the human-readable step name.
func (s Step) DisplayName() string {
	return fmt.Sprintf("Step %02d: %s", s.Number, s.Name)
}

// KnowledgeTuningSteps is the built-in knowledge-tuning workflow.
var KnowledgeTuningSteps = []Step{
	{
		Number:          1,
		Name:            "Base Model Evaluation",
		NotebookPath:    "01_Base_Model_Evaluation/Base_Model_Evaluation.ipynb",
		ExpectedOutputs: []string{"output/base_model"},
		RequiresGPU:     true,
	},
	{
		Number:       2,
		Name:         "Data Processing",
		NotebookPath: "02_Data_Processing/Data_Processing.ipynb",
		ExpectedOutputs: []string{
			"output/step_02/docling_output",
			"output/step_02/seed_data.jsonl",
		},
	},
	{
		Number:       3,
		Name:         "Knowledge Generation",
		NotebookPath: "03_Knowledge_Generation/Knowledge_Generation.ipynb",
		ExpectedOutputs: []string{
			"output/step_03/extractive_summary",
			"output/step_03/detailed_summary",
		},
		RequiresGPU:    true,
		TimeoutSeconds: 3600,
	},
	{
		Number:          4,
		Name:            "Knowledge Mixing",
		NotebookPath:    "04_Knowledge_Mixing/Knowledge_Mixing.ipynb",
		ExpectedOutputs: []string{"output/step_04"},
	},
	{
		Number:          5,
		Name:            "Model Training",
		NotebookPath:    "05_Model_Training/Model_Training.ipynb",
		ExpectedOutputs: []string{"output/fine_tuned_model"},
		RequiresGPU:     true,
		TimeoutSeconds:  3600,
	},
	{
		Number:       6,
		Name:         "Evaluation",
		NotebookPath: "06_Evaluation/Evaluation.ipynb",
		RequiresGPU:  true,
	},
}

type manifest struct {
	Steps []Step `yaml:"steps"`
}

// LoadManifest reads a step list from a YAML manifest.
func LoadManifest(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(m.Steps) == 0 {
		return nil, errors.ErrNoSteps
	}
	for _, s := range m.Steps {
		if s.NotebookPath == "" {
			return nil, fmt.Errorf("step %d (%s) has no notebook path", s.Number, s.Name)
		}
	}

	return m.Steps, nil
}

// ParseStepNumbers parses a comma-separated step list like "1,2,3".
// An empty string yields nil.
func ParseStepNumbers(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid step number %q: %w", part, err)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// FilterSteps narrows steps to the include list (empty means all) and
// removes the exclude list, preserving order.
func FilterSteps(steps []Step, include, exclude []int) []Step {
	included := map[int]bool{}
	for _, n := range include {
		included[n] = true
	}
	excluded := map[int]bool{}
	for _, n := range exclude {
		excluded[n] = true
	}

	filtered := make([]Step, 0, len(steps))
	for _, s := range steps {
		if len(include) > 0 && !included[s.Number] {
			continue
		}
		if excluded[s.Number] {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}
