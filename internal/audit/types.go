// Package audit provides the ambient operational event logger: structured,
// asynchronously-flushed logging of agent actions, tool outcomes, and
// permission decisions, distinct from the queryable Audit Journal in
// journal.go.
package audit

import (
	"time"
)

// EventType categorizes audit events.
type EventType string

const (
	// Tool events
	EventToolCompletion EventType = "tool.completion"
	EventToolDenied     EventType = "tool.denied"

	// Agent events
	EventAgentAction EventType = "agent.action"
	EventAgentError  EventType = "agent.error"

	// Permission events
	EventPermissionGranted EventType = "permission.granted"
	EventPermissionDenied  EventType = "permission.denied"

	// Execution Loop events; these are also the values stored in the
	// Audit Journal's AuditEntry.EventType for the same occurrence.
	EventSessionStarted       EventType = "session_started"
	EventSessionEnded         EventType = "session_ended"
	EventConfigurationChanged EventType = "configuration_changed"
	EventSecurityViolation    EventType = "security_violation"
	EventApprovalGranted      EventType = "approval_granted"
	EventApprovalExpired      EventType = "approval_expired"
	EventApprovalDenied       EventType = "approval_denied"
	EventCommandExecuted      EventType = "command_executed"
)

// Level represents audit log severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event represents a single audit log entry.
type Event struct {
	// ID is a unique identifier for this audit event.
	ID string `json:"id"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// Level is the severity level.
	Level Level `json:"level"`

	// Timestamp when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// SessionID identifies the session context.
	SessionID string `json:"session_id,omitempty"`

	// SessionKey is the hierarchical session key (agent:agentId:mainKey).
	SessionKey string `json:"session_key,omitempty"`

	// AgentID identifies the agent involved.
	AgentID string `json:"agent_id,omitempty"`

	// ToolName identifies the tool for tool-related events.
	ToolName string `json:"tool_name,omitempty"`

	// ToolCallID links to a specific tool call.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Action describes what happened.
	Action string `json:"action"`

	// Details contains event-specific structured data.
	Details map[string]any `json:"details,omitempty"`

	// Duration is the time taken for timed operations.
	Duration time.Duration `json:"duration,omitempty"`

	// Error contains error information if applicable.
	Error string `json:"error,omitempty"`

	// UserID identifies the user if authenticated.
	UserID string `json:"user_id,omitempty"`

	// TraceID for distributed tracing correlation.
	TraceID string `json:"trace_id,omitempty"`

	// SpanID for distributed tracing correlation.
	SpanID string `json:"span_id,omitempty"`

	// ParentEventID links to a parent audit event.
	ParentEventID string `json:"parent_event_id,omitempty"`
}

// OutputFormat specifies the audit log output format.
type OutputFormat string

const (
	FormatJSON   OutputFormat = "json"
	FormatLogfmt OutputFormat = "logfmt"
	FormatText   OutputFormat = "text"
)

// Config configures the audit logger.
type Config struct {
	// Enabled determines if audit logging is active.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Level is the minimum level to log.
	Level Level `json:"level" yaml:"level"`

	// Format specifies the output format.
	Format OutputFormat `json:"format" yaml:"format"`

	// Output specifies where to write logs.
	// Supported: "stdout", "stderr", "file:/path/to/file.log"
	Output string `json:"output" yaml:"output"`

	// IncludeToolOutput determines if tool outputs are logged.
	IncludeToolOutput bool `json:"include_tool_output" yaml:"include_tool_output"`

	// IncludeMessageContent determines if message content is logged.
	IncludeMessageContent bool `json:"include_message_content" yaml:"include_message_content"`

	// MaxFieldSize limits the size of logged fields.
	MaxFieldSize int `json:"max_field_size" yaml:"max_field_size"`

	// EventTypes filters which event types to log (empty = all).
	EventTypes []EventType `json:"event_types" yaml:"event_types"`

	// SampleRate controls what fraction of events are logged (0.0 to 1.0).
	// 1.0 = all events, 0.1 = 10% of events.
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate"`

	// BufferSize is the size of the async write buffer.
	BufferSize int `json:"buffer_size" yaml:"buffer_size"`

	// FlushInterval is how often to flush the buffer.
	FlushInterval time.Duration `json:"flush_interval" yaml:"flush_interval"`
}

// DefaultConfig returns a default audit configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:               false,
		Level:                 LevelInfo,
		Format:                FormatJSON,
		Output:                "stdout",
		IncludeToolOutput:     false,
		IncludeMessageContent: false,
		MaxFieldSize:          1024,
		SampleRate:            1.0,
		BufferSize:            1000,
		FlushInterval:         5 * time.Second,
	}
}
