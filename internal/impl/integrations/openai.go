package integrations

import (
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

// OpenAIIntegration implements the OpenAI API
type OpenAIIntegration struct {
	*AIModelIntegration
}

// NewOpenAIIntegration creates a new OpenAI integration
func NewOpenAIIntegration(baseURL, apiKey, model string, timeout time.Duration, stream bool, logger *zap.Logger) (*OpenAIIntegration, error) {
	integration, err := NewAIModelIntegration(baseURL+"/chat/completions", apiKey, model, timeout, stream, logger)
	if err != nil {
		return nil, err
	}

	return &OpenAIIntegration{
		AIModelIntegration: integration,
	}, nil
}

// ProviderType returns the type of provider
func (m *OpenAIIntegration) ProviderType() entities.ProviderType {
	return entities.ProviderOpenAI
}

// Ensure OpenAIIntegration implements AIModelIntegration
var _ interfaces.AIModelIntegration = (*OpenAIIntegration)(nil)
