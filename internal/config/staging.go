package config

// StagingConfig holds the configuration for the remote staging area
// used to preserve executed notebooks and reports. An empty Type
// disables staging.
type StagingConfig struct {
	Parameters map[string]string `mapstructure:"PARAMETERS"`
	Type       string            `mapstructure:"TYPE"`
	Bucket     string            `mapstructure:"BUCKET"`
	Prefix     string            `mapstructure:"PREFIX"`
	URL        string            `mapstructure:"URL"`
}
