// Package llm defines the LLM client contract the Execution Loop drives
// (§6) and provider adapters that satisfy it, grounded in the teacher's
// internal/agent/providers package.
package llm

import (
	"context"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// Role identifies who produced a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn in the conversation sent to send_message. Images
// carries JPEG bytes attached to a user turn (vision feedback screenshots,
// §4.E step 4.e); ToolCallID/ToolCallName identify which prior tool_call a
// tool-role message answers.
type Message struct {
	Role         Role
	Content      string
	Images       [][]byte
	ToolCallID   string
	ToolCallName string
	ToolCalls    []models.ToolCall
}

// Usage reports token accounting for a single send_message call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// FinishReason classifies why the model stopped generating.
type FinishReason string

const (
	FinishStop      FinishReason = "stop"
	FinishToolCalls FinishReason = "tool_calls"
	FinishLength    FinishReason = "length"
	FinishError     FinishReason = "error"
)

// Request is the argument bundle for send_message (§6).
type Request struct {
	Provider     string
	Model        string
	Messages     []Message
	SystemPrompt string
	Tools        []models.ToolDescriptor
	Temperature  float64
	MaxTokens    int
}

// Response is send_message's return value.
type Response struct {
	Content      string
	ToolCalls    []models.ToolCall
	FinishReason FinishReason
	Usage        Usage
}

// Client is the LLM client contract the Execution Loop consumes. A single
// Client instance is bound to one provider; the Execution Loop selects a
// Client from a Router keyed by the agent's configured provider tag.
type Client interface {
	// SendMessage implements send_message (§6): a single non-streaming
	// round trip.
	SendMessage(ctx context.Context, req Request) (Response, error)
}
