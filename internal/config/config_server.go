package config

// ServerConfig configures the process entrypoint's listeners.
type ServerConfig struct {
	Host        string `yaml:"host"`
	MetricsPort int    `yaml:"metrics_port"`
}

func defaultServer() ServerConfig {
	return ServerConfig{Host: "0.0.0.0", MetricsPort: 9090}
}
