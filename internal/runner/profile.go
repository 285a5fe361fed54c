package runner

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jaeaeich/nbrun/internal/errors"
)

// Profile holds the tuning knobs for an E2E run: small models and
// minimal data for fast CI execution, larger ones for thorough runs.
type Profile struct {
	Name                      string
	StudentModelName          string
	TeacherModelName          string
	MaxSteps                  int
	MaxSamples                int
	MaxSeqLength              int
	PerDeviceTrainBatchSize   int
	GradientAccumulationSteps int
	LearningRate              float64
	WarmupSteps               int
	NotebookTimeout           time.Duration
}

func baseProfile() Profile {
	return Profile{
		PerDeviceTrainBatchSize:   1,
		GradientAccumulationSteps: 1,
		LearningRate:              2e-5,
		WarmupSteps:               1,
		NotebookTimeout:           30 * time.Minute,
	}
}

// MinimalProfile is the quick CI profile.
func MinimalProfile() Profile {
	p := baseProfile()
	p.Name = "minimal"
	p.StudentModelName = "HuggingFaceTB/SmolLM2-135M-Instruct"
	p.TeacherModelName = "HuggingFaceTB/SmolLM2-135M-Instruct"
	p.MaxSteps = 2
	p.MaxSamples = 3
	p.MaxSeqLength = 128
	p.NotebookTimeout = 15 * time.Minute
	return p
}

// StandardProfile is the regular E2E profile.
func StandardProfile() Profile {
	p := baseProfile()
	p.Name = "standard"
	p.StudentModelName = "HuggingFaceTB/SmolLM2-360M-Instruct"
	p.TeacherModelName = "HuggingFaceTB/SmolLM2-360M-Instruct"
	p.MaxSteps = 5
	p.MaxSamples = 5
	p.MaxSeqLength = 256
	return p
}

// ExtendedProfile is the thorough-testing profile.
func ExtendedProfile() Profile {
	p := baseProfile()
	p.Name = "extended"
	p.StudentModelName = "Qwen/Qwen2.5-0.5B-Instruct"
	p.TeacherModelName = "Qwen/Qwen2.5-0.5B-Instruct"
	p.MaxSteps = 10
	p.MaxSamples = 10
	p.MaxSeqLength = 512
	p.NotebookTimeout = time.Hour
	return p
}

// ProfileByName resolves a profile by its CLI name.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "minimal":
		return MinimalProfile(), nil
	case "standard":
		return StandardProfile(), nil
	case "extended":
		return ExtendedProfile(), nil
	default:
		return Profile{}, fmt.Errorf("%w: %s", errors.ErrUnknownProfile, name)
	}
}

// EnvVars returns the environment variables the notebooks read their
// configuration from.
func (p Profile) EnvVars() map[string]string {
	return map[string]string{
		"STUDENT_MODEL_NAME":          p.StudentModelName,
		"TEACHER_MODEL_NAME":          p.TeacherModelName,
		"E2E_TEST_MODE":               "true",
		"MAX_STEPS":                   strconv.Itoa(p.MaxSteps),
		"MAX_SAMPLES":                 strconv.Itoa(p.MaxSamples),
		"MAX_SEQ_LENGTH":              strconv.Itoa(p.MaxSeqLength),
		"PER_DEVICE_TRAIN_BATCH_SIZE": strconv.Itoa(p.PerDeviceTrainBatchSize),
		"GRADIENT_ACCUMULATION_STEPS": strconv.Itoa(p.GradientAccumulationSteps),
		"LEARNING_RATE":               strconv.FormatFloat(p.LearningRate, 'g', -1, 64),
		"WARMUP_STEPS":                strconv.Itoa(p.WarmupSteps),
	}
}
