package integrations

import (
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

// OllamaIntegration uses the OpenAI-compatible endpoint of a local Ollama server
type OllamaIntegration struct {
	*AIModelIntegration
}

// NewOllamaIntegration creates a new Ollama integration. Ollama ignores the
// key, so an empty one is replaced with a placeholder.
func NewOllamaIntegration(baseURL, apiKey, model string, timeout time.Duration, stream bool, logger *zap.Logger) (*OllamaIntegration, error) {
	if apiKey == "" {
		apiKey = "ollama"
	}
	integration, err := NewAIModelIntegration(baseURL+"/chat/completions", apiKey, model, timeout, stream, logger)
	if err != nil {
		return nil, err
	}

	return &OllamaIntegration{
		AIModelIntegration: integration,
	}, nil
}

// ProviderType returns the type of provider
func (m *OllamaIntegration) ProviderType() entities.ProviderType {
	return entities.ProviderOllama
}

// Ensure OllamaIntegration implements AIModelIntegration
var _ interfaces.AIModelIntegration = (*OllamaIntegration)(nil)
