package integrations

import (
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

// GroqIntegration uses Groq's OpenAI-compatible endpoint
type GroqIntegration struct {
	*AIModelIntegration
}

// NewGroqIntegration creates a new Groq integration
func NewGroqIntegration(baseURL, apiKey, model string, timeout time.Duration, stream bool, logger *zap.Logger) (*GroqIntegration, error) {
	integration, err := NewAIModelIntegration(baseURL+"/chat/completions", apiKey, model, timeout, stream, logger)
	if err != nil {
		return nil, err
	}

	return &GroqIntegration{
		AIModelIntegration: integration,
	}, nil
}

// ProviderType returns the type of provider
func (m *GroqIntegration) ProviderType() entities.ProviderType {
	return entities.ProviderGroq
}

// Ensure GroqIntegration implements AIModelIntegration
var _ interfaces.AIModelIntegration = (*GroqIntegration)(nil)
