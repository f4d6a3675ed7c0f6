package config

// LoggingConfig configures the ambient operational logger (distinct from
// the Audit Journal, §4.A vs §10.2).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ObservabilityConfig configures metrics and tracing for the loop,
// dispatcher, and approval queue (SPEC_FULL §12: ambient, never a gate on
// spec-mandated behavior).
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// TracingConfig controls OpenTelemetry span export.
type TracingConfig struct {
	Enabled        bool              `yaml:"enabled"`
	Endpoint       string            `yaml:"endpoint"`
	ServiceName    string            `yaml:"service_name"`
	ServiceVersion string            `yaml:"service_version"`
	Environment    string            `yaml:"environment"`
	SamplingRate   float64           `yaml:"sampling_rate"`
	Insecure       bool              `yaml:"insecure"`
	Attributes     map[string]string `yaml:"attributes"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

func defaultObservability() ObservabilityConfig {
	return ObservabilityConfig{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Tracing: TracingConfig{
			ServiceName:  "agentcore",
			SamplingRate: 0.1,
		},
		Metrics: MetricsConfig{Enabled: true, Addr: ":9090"},
	}
}
