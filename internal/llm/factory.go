package llm

import "fmt"

// ProviderConfig is the subset of configuration each adapter needs to
// construct its Client. It mirrors config.LLMProviderConfig without this
// package importing internal/config (avoiding an import cycle, since
// config may one day want to validate provider names against llm).
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// BuildRouter constructs a Router from a provider-name-to-config map. Only
// providers with a non-empty APIKey (or, for OpenAI-compatible local
// endpoints, a BaseURL) are instantiated; unusable providers are skipped
// rather than failing startup, since an agent may only ever use one.
func BuildRouter(providers map[string]ProviderConfig, defaultProvider string) (*Router, error) {
	clients := make(map[string]Client, len(providers))

	for name, cfg := range providers {
		switch name {
		case "anthropic":
			if cfg.APIKey == "" {
				continue
			}
			c, err := NewAnthropicClient(AnthropicConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, DefaultModel: cfg.Model})
			if err != nil {
				return nil, fmt.Errorf("llm: build anthropic client: %w", err)
			}
			clients[name] = c
		case "openai":
			if cfg.APIKey == "" && cfg.BaseURL == "" {
				continue
			}
			c, err := NewOpenAIClient(OpenAIConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, DefaultModel: cfg.Model})
			if err != nil {
				return nil, fmt.Errorf("llm: build openai client: %w", err)
			}
			clients[name] = c
		case "ollama":
			// Ollama exposes an OpenAI-compatible endpoint; no key required.
			if cfg.BaseURL == "" {
				continue
			}
			c, err := NewOpenAIClient(OpenAIConfig{APIKey: "ollama", BaseURL: cfg.BaseURL + "/v1", DefaultModel: cfg.Model})
			if err != nil {
				return nil, fmt.Errorf("llm: build ollama client: %w", err)
			}
			clients[name] = c
		default:
			// Unknown provider names (gemini, custom gateways) are left for
			// a future adapter; BuildRouter does not fail on them.
		}
	}

	if len(clients) == 0 {
		return nil, fmt.Errorf("llm: no usable provider configuration found")
	}

	return NewRouter(clients, defaultProvider), nil
}
