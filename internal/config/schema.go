package config

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema is compiled once and reused for every Validate call, the
// way the teacher's plugin config validator caches its compiled schema.
var configSchema = jsonschema.MustCompileString("config.schema.json", configSchemaJSON)

const configSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "server": {
      "type": "object",
      "properties": {
        "host": {"type": "string", "minLength": 1},
        "metrics_port": {"type": "integer", "minimum": 0, "maximum": 65535}
      },
      "required": ["host"]
    },
    "llm": {
      "type": "object",
      "properties": {
        "default_provider": {"type": "string", "minLength": 1}
      },
      "required": ["default_provider"]
    },
    "session": {
      "type": "object",
      "properties": {
        "max_iterations": {"type": "integer", "minimum": 1},
        "agent_mode_max_iterations": {"type": "integer", "minimum": 1},
        "work_dir": {"type": "string", "minLength": 1},
        "audit": {
          "type": "object",
          "properties": {
            "driver": {"type": "string", "enum": ["sqlite", "postgres"]},
            "dsn": {"type": "string", "minLength": 1}
          },
          "required": ["driver", "dsn"]
        }
      },
      "required": ["max_iterations", "agent_mode_max_iterations", "audit"]
    },
    "default_security_policy": {
      "type": "object",
      "properties": {
        "auto_approve_ceiling": {"type": "integer", "minimum": 0, "maximum": 3}
      }
    }
  },
  "required": ["server", "llm", "session"]
}`

// Validate checks cfg against the configuration JSON schema and a handful
// of cross-field invariants the schema can't express (§4.E iteration
// bounds, §4.A driver selection).
func Validate(cfg Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := configSchema.Validate(decoded); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	if cfg.Session.AgentModeMaxIterations < cfg.Session.MaxIterations {
		return fmt.Errorf("config invalid: agent_mode_max_iterations (%d) must be >= max_iterations (%d)",
			cfg.Session.AgentModeMaxIterations, cfg.Session.MaxIterations)
	}
	if cfg.Session.Audit.Driver != "sqlite" && cfg.Session.Audit.Driver != "postgres" {
		return fmt.Errorf("config invalid: unsupported audit driver %q", cfg.Session.Audit.Driver)
	}
	if _, ok := cfg.LLM.Providers[cfg.LLM.DefaultProvider]; !ok {
		return fmt.Errorf("config invalid: default_provider %q has no matching entry under llm.providers", cfg.LLM.DefaultProvider)
	}
	return nil
}
