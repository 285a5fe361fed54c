package config

// MongoConfig holds the mongodb configuration for report history.
type MongoConfig struct {
	Host             string `mapstructure:"HOST"`
	Username         string `mapstructure:"USERNAME"`
	Password         string `mapstructure:"PASSWORD"`
	Database         string `mapstructure:"DATABASE"`
	ReportCollection string `mapstructure:"REPORT_COLLECTION"`
	Port             int    `mapstructure:"PORT"`
	Enabled          bool   `mapstructure:"ENABLED"`
}
