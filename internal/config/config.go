// Package config provides the configuration for the nbrun application.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

var (
	// Version is the application version, set at build time.
	Version string
	// GitCommit is the git commit hash, set at build time.
	GitCommit string
	// Cfg is the global configuration object.
	Cfg *Config
)

// Config holds the application's configuration.
type Config struct {
	// Cluster connection parameters. Sourced from RHOAI_API_URL,
	// RHOAI_TOKEN, RHOAI_NAMESPACE and RHOAI_VERIFY_SSL.
	APIURL    string `mapstructure:"API_URL"`
	Token     string `mapstructure:"TOKEN"`
	Namespace string `mapstructure:"NAMESPACE"`
	VerifySSL bool   `mapstructure:"VERIFY_SSL"`

	Log     LogConfig     `mapstructure:"LOG"`
	Mongo   MongoConfig   `mapstructure:"MONGO"`
	API     APIConfig     `mapstructure:"API"`
	Staging StagingConfig `mapstructure:"STAGING"`
	Runner  RunnerConfig  `mapstructure:"RUNNER"`
}

// Load loads the configuration from the environment.
func Load() error {
	viper.SetEnvPrefix("RHOAI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("API_URL", "")
	viper.SetDefault("TOKEN", "")
	viper.SetDefault("NAMESPACE", "default")
	viper.SetDefault("VERIFY_SSL", true)

	viper.SetDefault("LOG.LEVEL", "info")
	viper.SetDefault("LOG.FORMAT", "text")

	viper.SetDefault("MONGO.ENABLED", false)
	viper.SetDefault("MONGO.HOST", "localhost")
	viper.SetDefault("MONGO.PORT", 27017)
	viper.SetDefault("MONGO.USERNAME", "")
	viper.SetDefault("MONGO.PASSWORD", "")
	viper.SetDefault("MONGO.DATABASE", "nbrun")
	viper.SetDefault("MONGO.REPORT_COLLECTION", "reports")

	viper.SetDefault("API.SERVER.PORT", 8080)

	viper.SetDefault("STAGING.TYPE", "")
	viper.SetDefault("STAGING.BUCKET", "nbrun")
	viper.SetDefault("STAGING.PREFIX", "runs")
	viper.SetDefault("STAGING.URL", "")
	viper.SetDefault("STAGING.PARAMETERS", map[string]string{})

	viper.SetDefault("RUNNER.OUTPUT_DIR", "e2e_output")
	viper.SetDefault("RUNNER.IMAGE", "quay.io/modh/odh-generic-data-science-notebook:v3-20241111")
	viper.SetDefault("RUNNER.CPU", "4")
	viper.SetDefault("RUNNER.MEMORY", "16Gi")
	viper.SetDefault("RUNNER.GPU_RESOURCE", "nvidia.com/gpu")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return err
	}

	Cfg = &config
	return nil
}
