package integrations

import (
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

// CerebrasIntegration uses Cerebras' OpenAI-compatible endpoint
type CerebrasIntegration struct {
	*AIModelIntegration
}

// NewCerebrasIntegration creates a new Cerebras integration
func NewCerebrasIntegration(baseURL, apiKey, model string, timeout time.Duration, stream bool, logger *zap.Logger) (*CerebrasIntegration, error) {
	integration, err := NewAIModelIntegration(baseURL+"/chat/completions", apiKey, model, timeout, stream, logger)
	if err != nil {
		return nil, err
	}

	return &CerebrasIntegration{
		AIModelIntegration: integration,
	}, nil
}

// ProviderType returns the type of provider
func (m *CerebrasIntegration) ProviderType() entities.ProviderType {
	return entities.ProviderCerebras
}

// Ensure CerebrasIntegration implements AIModelIntegration
var _ interfaces.AIModelIntegration = (*CerebrasIntegration)(nil)
