package factory

import (
	"fmt"
	"time"

	"raw-ai-be/pkg/llm"
	"raw-ai-be/pkg/llm/ollama"
	"raw-ai-be/pkg/llm/openai"
)

type Config struct {
	Provider      string // "gateway", "openai" or "ollama"
	Model         string
	GatewayURL    string
	GatewayAPIKey string
	OllamaBaseURL string
	Timeout       time.Duration
}

// ErrNotConfigured is returned when the chosen provider is missing its secret.
type ErrNotConfigured struct {
	Missing string
}

func (e *ErrNotConfigured) Error() string {
	return fmt.Sprintf("llm provider not configured: %s is empty", e.Missing)
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	switch cfg.Provider {
	case "gateway", "openai":
		if cfg.GatewayURL == "" {
			return nil, &ErrNotConfigured{Missing: "AI_GATEWAY_URL"}
		}
		if cfg.GatewayAPIKey == "" {
			return nil, &ErrNotConfigured{Missing: "AI_GATEWAY_API_KEY"}
		}
		return openai.NewProvider(cfg.GatewayAPIKey, cfg.GatewayURL, cfg.Model, cfg.Timeout), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
