package integrations

import (
	"fmt"
	"strings"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

// AIModelFactory creates AI model integrations based on provider type
type AIModelFactory struct {
	timeout time.Duration
	stream  bool
	logger  *zap.Logger
}

// NewAIModelFactory creates a new AI model factory
func NewAIModelFactory(timeout time.Duration, stream bool, logger *zap.Logger) *AIModelFactory {
	return &AIModelFactory{
		timeout: timeout,
		stream:  stream,
		logger:  logger,
	}
}

// CreateModelIntegration creates an AI model integration for provider.
// baseURL overrides the provider's default endpoint when set.
func (f *AIModelFactory) CreateModelIntegration(provider entities.Provider, baseURL, model, apiKey string) (interfaces.AIModelIntegration, error) {
	endpoint := strings.TrimSuffix(provider.BaseURL, "/")
	if baseURL != "" {
		endpoint = strings.TrimSuffix(baseURL, "/")
	}
	if model == "" {
		model = provider.DefaultModel
	}

	// Create provider-specific integration
	switch provider.Type {
	case entities.ProviderOpenAI:
		return NewOpenAIIntegration(endpoint, apiKey, model, f.timeout, f.stream, f.logger)
	case entities.ProviderGroq:
		return NewGroqIntegration(endpoint, apiKey, model, f.timeout, f.stream, f.logger)
	case entities.ProviderCerebras:
		return NewCerebrasIntegration(endpoint, apiKey, model, f.timeout, f.stream, f.logger)
	case entities.ProviderOllama:
		return NewOllamaIntegration(endpoint, apiKey, model, f.timeout, f.stream, f.logger)
	case entities.ProviderGeneric:
		if endpoint == "" {
			return nil, fmt.Errorf("the generic provider needs GAURIKA_BASE_URL")
		}
		return NewGenericIntegration(endpoint, apiKey, model, f.timeout, f.stream, f.logger)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", provider.Type)
	}
}
