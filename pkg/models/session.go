package models

import "time"

// SessionStatus is the lifecycle state of an Execution Session.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionCancelled SessionStatus = "cancelled"
)

// StepKind enumerates the append-only step log recorded for a session.
type StepKind string

const (
	StepThinking              StepKind = "thinking"
	StepModelResponse         StepKind = "model_response"
	StepToolCall              StepKind = "tool_call"
	StepToolResult            StepKind = "tool_result"
	StepApprovalRequested     StepKind = "approval_requested"
	StepApprovalDecision      StepKind = "approval_decision"
	StepScreenshotObservation StepKind = "screenshot_observation"
	StepError                StepKind = "error"
)

// ExecutionStep is one append-only entry in a session's step log.
type ExecutionStep struct {
	Kind      StepKind  `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
	ToolCall  *ToolCall `json:"tool_call,omitempty"`
}

// ExecutionResult is the terminal outcome persisted when a session ends.
type ExecutionResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ExecutionSession is one end-to-end run of an agent against a user
// prompt. Steps are append-only; Status transitions exactly once to a
// terminal value.
type ExecutionSession struct {
	ID          string          `json:"id"`
	AgentID     string          `json:"agent_id"`
	Prompt      string          `json:"prompt"`
	Steps       []ExecutionStep `json:"steps"`
	Status      SessionStatus   `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	EndedAt     *time.Time      `json:"ended_at,omitempty"`
	Result      *ExecutionResult `json:"result,omitempty"`
}

// AppendStep appends to the step log. Sessions never rewrite or remove a
// prior step.
func (s *ExecutionSession) AppendStep(step ExecutionStep) {
	s.Steps = append(s.Steps, step)
}
