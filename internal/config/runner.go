package config

// RunnerConfig holds defaults for pipeline execution.
type RunnerConfig struct {
	OutputDir   string `mapstructure:"OUTPUT_DIR"`
	Image       string `mapstructure:"IMAGE"`
	CPU         string `mapstructure:"CPU"`
	Memory      string `mapstructure:"MEMORY"`
	GPUResource string `mapstructure:"GPU_RESOURCE"`
}
