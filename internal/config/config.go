// Package config implements the layered configuration surface: a typed
// Config struct assembled from section structs, loaded from YAML with
// AGENTCORE_* environment overrides and filled defaults, validated with a
// JSON-schema pass, and hot-reloaded via fsnotify — grounded in the
// teacher's internal/config loader, trimmed to the fields this core needs
// (§10.1).
package config

import (
	"github.com/haasonsaas/agentcore/pkg/models"
)

// Config is the root configuration for the Agent Execution Core.
type Config struct {
	Server        ServerConfig          `yaml:"server"`
	LLM           LLMConfig             `yaml:"llm"`
	Session       SessionConfig         `yaml:"session"`
	Observability ObservabilityConfig   `yaml:"observability"`
	Security      models.SecurityPolicy `yaml:"default_security_policy"`
}

// Default returns a Config with every section's documented defaults,
// including the conservative DefaultSecurityPolicy (§3).
func Default() Config {
	return Config{
		Server:        defaultServer(),
		LLM:           defaultLLM(),
		Session:       defaultSession(),
		Observability: defaultObservability(),
		Security:      models.DefaultSecurityPolicy(),
	}
}
