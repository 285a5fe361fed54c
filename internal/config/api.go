package config

// ServerConfig holds the report server configuration.
type ServerConfig struct {
	Host string `mapstructure:"HOST"`
	Port int    `mapstructure:"PORT"`
}

// APIConfig holds the configuration for the report API server.
type APIConfig struct {
	Server ServerConfig `mapstructure:"SERVER"`
}
