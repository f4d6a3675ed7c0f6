package config

import "time"

// SessionConfig configures the Execution Loop's bounds and housekeeping
// cadences (§4.D, §4.E).
type SessionConfig struct {
	// MaxIterations is the normal-mode iteration ceiling. Default: 10.
	MaxIterations int `yaml:"max_iterations"`

	// AgentModeMaxIterations is the agent_mode iteration ceiling. Default: 30.
	AgentModeMaxIterations int `yaml:"agent_mode_max_iterations"`

	// ApprovalTimeout is the default pending-approval expiry window when
	// an agent's policy does not override it.
	ApprovalTimeout time.Duration `yaml:"approval_timeout"`

	// ApprovalSweepInterval is the cadence of the expiry sweeper (§4.D: ~5s).
	ApprovalSweepInterval time.Duration `yaml:"approval_sweep_interval"`

	// VisionSettleDelay is the pause before a post-action screenshot in
	// agent_mode (§4.E step 4.e: ~0.9s).
	VisionSettleDelay time.Duration `yaml:"vision_settle_delay"`

	// WorkDir is the default working directory for shell/file tools.
	WorkDir string `yaml:"work_dir"`

	// MemoryPath is the Memory Store's backing JSON file (§3, §6).
	MemoryPath string `yaml:"memory_path"`

	// Audit configures the Audit Journal's backing store (§4.A).
	Audit AuditStorageConfig `yaml:"audit"`
}

// AuditStorageConfig selects the Audit Journal's database/sql driver and DSN.
type AuditStorageConfig struct {
	// Driver is "sqlite" or "postgres". Default: sqlite.
	Driver string `yaml:"driver"`
	// DSN is a filesystem path for sqlite, or a connection string for postgres.
	DSN string `yaml:"dsn"`
}

func defaultSession() SessionConfig {
	return SessionConfig{
		MaxIterations:          10,
		AgentModeMaxIterations: 30,
		ApprovalTimeout:        60 * time.Second,
		ApprovalSweepInterval:  5 * time.Second,
		VisionSettleDelay:      900 * time.Millisecond,
		WorkDir:                ".",
		MemoryPath:             "agentcore-memory.json",
		Audit: AuditStorageConfig{
			Driver: "sqlite",
			DSN:    "agentcore-audit.db",
		},
	}
}
