package integrations

import (
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

// GenericIntegration talks to any OpenAI-compatible server
type GenericIntegration struct {
	*AIModelIntegration
}

// NewGenericIntegration creates a new Generic integration
func NewGenericIntegration(baseURL, apiKey, model string, timeout time.Duration, stream bool, logger *zap.Logger) (*GenericIntegration, error) {
	integration, err := NewAIModelIntegration(baseURL+"/chat/completions", apiKey, model, timeout, stream, logger)
	if err != nil {
		return nil, err
	}

	return &GenericIntegration{
		AIModelIntegration: integration,
	}, nil
}

// ProviderType returns the type of provider
func (m *GenericIntegration) ProviderType() entities.ProviderType {
	return entities.ProviderGeneric
}

// Ensure GenericIntegration implements AIModelIntegration
var _ interfaces.AIModelIntegration = (*GenericIntegration)(nil)
