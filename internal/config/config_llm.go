package config

// LLMConfig configures the LLM client contract (§6): which provider an
// agent talks to by default and how each provider is reached.
type LLMConfig struct {
	DefaultProvider string                       `yaml:"default_provider"`
	Providers       map[string]LLMProviderConfig `yaml:"providers"`
}

// LLMProviderConfig is one provider's connection details. APIKey is
// normally left empty here and supplied through the secret store (§6);
// a value here is only a local-development convenience.
type LLMProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

func defaultLLM() LLMConfig {
	return LLMConfig{
		DefaultProvider: "anthropic",
		Providers: map[string]LLMProviderConfig{
			"anthropic": {Model: "claude-sonnet-4-20250514"},
			"openai":    {Model: "gpt-4o"},
			"ollama":    {BaseURL: "http://localhost:11434", Model: "llama3.1"},
		},
	}
}
