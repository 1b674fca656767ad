package embedding

import (
	"fmt"
	"time"

	"reco/config"
	"reco/internal/domain"
	"reco/internal/port"
)

// NewFromConfig builds the embedder named by cfg.Provider.
func NewFromConfig(cfg config.EmbeddingConfig) (port.Embedder, error) {
	opts := Options{
		BaseURL:   cfg.BaseURL,
		Dimension: cfg.Dimension,
		BatchSize: cfg.BatchSize,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIEmbedder(cfg.APIKeyEnv, cfg.Model, opts)
	case "deepseek":
		return NewDeepSeekEmbedder(cfg.APIKeyEnv, cfg.Model, opts)
	case "jina":
		return NewJinaEmbedder(cfg.APIKeyEnv, cfg.Model, opts)
	case "ollama":
		return NewOllamaEmbedder(cfg.Model, opts), nil
	case "mock":
		return NewMockEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("embedding provider %q: %w", cfg.Provider, domain.ErrUnknownProvider)
	}
}
