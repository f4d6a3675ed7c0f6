package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/haasonsaas/agentcore/internal/retry"
	"github.com/haasonsaas/agentcore/pkg/models"
)

// AnthropicClient implements Client against the Anthropic Messages API,
// grounded in the teacher's AnthropicProvider (internal/agent/providers).
type AnthropicClient struct {
	client       anthropic.Client
	defaultModel string
	retry        retry.Config
}

// AnthropicConfig configures AnthropicClient construction.
type AnthropicConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

// NewAnthropicClient builds a Client backed by the Anthropic SDK.
func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: anthropic api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &AnthropicClient{
		client:       anthropic.NewClient(opts...),
		defaultModel: model,
		retry:        retry.Exponential(3, retryBaseDelay, retryMaxDelay),
	}, nil
}

func (c *AnthropicClient) SendMessage(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	messages, err := c.convertMessages(req.Messages)
	if err != nil {
		return Response{}, fmt.Errorf("llm: anthropic: convert messages: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		Messages:  messages,
		MaxTokens: int64(maxTokensOrDefault(req.MaxTokens)),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: req.SystemPrompt}}
	}
	if len(req.Tools) > 0 {
		tools, err := c.convertTools(req.Tools)
		if err != nil {
			return Response{}, fmt.Errorf("llm: anthropic: convert tools: %w", err)
		}
		params.Tools = tools
	}

	msg, result := retry.DoWithValue(ctx, c.retry, func() (*anthropic.Message, error) {
		m, err := c.client.Messages.New(ctx, params)
		if err != nil {
			wrapped := c.wrapError(err, model)
			if !wrapped.Reason.IsRetryable() {
				return nil, retry.Permanent(wrapped)
			}
			return nil, wrapped
		}
		return m, nil
	})
	if result.Err != nil {
		return Response{}, fmt.Errorf("llm: anthropic: send message: %w", result.Err)
	}

	return c.convertResponse(msg), nil
}

func (c *AnthropicClient) convertResponse(msg *anthropic.Message) Response {
	var resp Response
	var toolCalls []models.ToolCall
	var text strings.Builder

	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			toolUse := block.AsToolUse()
			var input map[string]any
			_ = json.Unmarshal(toolUse.Input, &input)
			toolCalls = append(toolCalls, models.ToolCall{
				ID:        toolUse.ID,
				Name:      toolUse.Name,
				Arguments: argumentsToStringMap(input),
			})
		}
	}

	resp.Content = text.String()
	resp.ToolCalls = toolCalls
	resp.Usage = Usage{
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}
	if len(toolCalls) > 0 {
		resp.FinishReason = FinishToolCalls
	} else if string(msg.StopReason) == "max_tokens" {
		resp.FinishReason = FinishLength
	} else {
		resp.FinishReason = FinishStop
	}
	return resp
}

func (c *AnthropicClient) convertMessages(messages []Message) ([]anthropic.MessageParam, error) {
	var out []anthropic.MessageParam
	for _, m := range messages {
		var content []anthropic.ContentBlockParamUnion

		if m.Content != "" {
			content = append(content, anthropic.NewTextBlock(m.Content))
		}
		for _, img := range m.Images {
			content = append(content, anthropic.NewImageBlockBase64("image/jpeg", encodeBase64(img)))
		}
		if m.Role == RoleTool {
			content = append(content, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false))
		}
		for _, tc := range m.ToolCalls {
			content = append(content, anthropic.NewToolUseBlock(tc.ID, argumentsToJSONObject(tc.Arguments), tc.Name))
		}

		if len(content) == 0 {
			continue
		}

		switch m.Role {
		case RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(content...))
		default:
			// User and tool-result turns both map to Anthropic's user role.
			out = append(out, anthropic.NewUserMessage(content...))
		}
	}
	return out, nil
}

func (c *AnthropicClient) convertTools(tools []models.ToolDescriptor) ([]anthropic.ToolUnionParam, error) {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		schemaBytes, err := json.Marshal(toolInputSchema(t))
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name, err)
		}
		var schema anthropic.ToolInputSchemaParam
		if err := json.Unmarshal(schemaBytes, &schema); err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name, err)
		}
		param := anthropic.ToolUnionParamOfTool(schema, t.Name)
		if param.OfTool != nil {
			param.OfTool.Description = anthropic.String(t.Description)
		}
		out = append(out, param)
	}
	return out, nil
}

type anthropicErrorPayload struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *AnthropicClient) wrapError(err error, model string) *ProviderError {
	pe := &ProviderError{Provider: "anthropic", Model: model, Cause: err, Reason: FailoverUnknown}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		pe.Status = apiErr.StatusCode
		pe.Reason = classifyStatus(apiErr.StatusCode)
		if raw := apiErr.RawJSON(); raw != "" {
			var payload anthropicErrorPayload
			if json.Unmarshal([]byte(raw), &payload) == nil && payload.Error.Message != "" {
				pe.Message = payload.Error.Message
			}
		}
		return pe
	}
	pe.Reason = classifyMessage(err.Error())
	return pe
}
