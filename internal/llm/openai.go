package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/haasonsaas/agentcore/internal/retry"
	"github.com/haasonsaas/agentcore/pkg/models"
)

// OpenAIClient implements Client against the Chat Completions API,
// grounded in the teacher's OpenAIProvider (internal/agent/providers).
type OpenAIClient struct {
	client       *openai.Client
	defaultModel string
	retry        retry.Config
}

// OpenAIConfig configures OpenAIClient construction.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

// NewOpenAIClient builds a Client backed by the go-openai SDK. BaseURL lets
// this adapter also serve OpenAI-compatible endpoints (e.g. Ollama's
// OpenAI shim) when configured that way.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("llm: openai api key or base_url is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIClient{
		client:       openai.NewClientWithConfig(clientCfg),
		defaultModel: model,
		retry:        retry.Exponential(3, retryBaseDelay, retryMaxDelay),
	}, nil
}

func (c *OpenAIClient) SendMessage(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	messages, err := c.convertMessages(req)
	if err != nil {
		return Response{}, fmt.Errorf("llm: openai: convert messages: %w", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokensOrDefault(req.MaxTokens),
		Temperature: float32(req.Temperature),
	}
	if len(req.Tools) > 0 {
		chatReq.Tools = c.convertTools(req.Tools)
	}

	resp, result := retry.DoWithValue(ctx, c.retry, func() (openai.ChatCompletionResponse, error) {
		r, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			wrapped := c.wrapError(err, model)
			if !wrapped.Reason.IsRetryable() {
				return openai.ChatCompletionResponse{}, retry.Permanent(wrapped)
			}
			return openai.ChatCompletionResponse{}, wrapped
		}
		return r, nil
	})
	if result.Err != nil {
		return Response{}, fmt.Errorf("llm: openai: send message: %w", result.Err)
	}

	return c.convertResponse(resp), nil
}

func (c *OpenAIClient) convertMessages(req Request) ([]openai.ChatCompletionMessage, error) {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Content,
				ToolCallID: m.ToolCallID,
			})
		case RoleAssistant:
			msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content}
			for _, tc := range m.ToolCalls {
				args, err := json.Marshal(argumentsToJSONObject(tc.Arguments))
				if err != nil {
					return nil, fmt.Errorf("tool call %s: %w", tc.Name, err)
				}
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(args),
					},
				})
			}
			out = append(out, msg)
		default:
			if len(m.Images) == 0 {
				out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content})
				continue
			}
			parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: m.Content}}
			for _, img := range m.Images {
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: "data:image/jpeg;base64," + encodeBase64(img),
					},
				})
			}
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, MultiContent: parts})
		}
	}
	return out, nil
}

func (c *OpenAIClient) convertTools(tools []models.ToolDescriptor) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  toolInputSchema(t),
			},
		})
	}
	return out
}

func (c *OpenAIClient) convertResponse(resp openai.ChatCompletionResponse) Response {
	if len(resp.Choices) == 0 {
		return Response{FinishReason: FinishStop}
	}
	choice := resp.Choices[0]

	var toolCalls []models.ToolCall
	for _, tc := range choice.Message.ToolCalls {
		var input map[string]any
		_ = json.Unmarshal([]byte(tc.Function.Arguments), &input)
		toolCalls = append(toolCalls, models.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: argumentsToStringMap(input),
		})
	}

	finish := FinishStop
	switch choice.FinishReason {
	case openai.FinishReasonToolCalls, openai.FinishReasonFunctionCall:
		finish = FinishToolCalls
	case openai.FinishReasonLength:
		finish = FinishLength
	}
	if len(toolCalls) > 0 {
		finish = FinishToolCalls
	}

	return Response{
		Content:      choice.Message.Content,
		ToolCalls:    toolCalls,
		FinishReason: finish,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
}

func (c *OpenAIClient) wrapError(err error, model string) *ProviderError {
	pe := &ProviderError{Provider: "openai", Model: model, Cause: err, Reason: FailoverUnknown}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		pe.Status = apiErr.HTTPStatusCode
		pe.Reason = classifyStatus(apiErr.HTTPStatusCode)
		pe.Message = apiErr.Message
		return pe
	}
	pe.Reason = classifyMessage(err.Error())
	return pe
}
