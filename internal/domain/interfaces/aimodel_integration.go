package interfaces

import (
	"context"
	"io"

	"github.com/drujensen/gaurika/internal/domain/entities"
)

const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
)

// CompletionRequest is one call to the chat completions endpoint.
type CompletionRequest struct {
	Messages    []entities.Message
	Tools       []entities.ToolDefinition
	ToolChoice  string
	Temperature float64
	MaxTokens   int
	// Stream receives content deltas as they arrive when streaming is enabled.
	Stream io.Writer
}

type CompletionResponse struct {
	Content      string
	ToolCalls    []entities.ToolCall
	FinishReason string
}

// AIModelIntegration defines the interface for AI model providers
type AIModelIntegration interface {
	// Complete sends the request and returns the assistant's reply
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// ModelName returns the name of the model being used
	ModelName() string

	// ProviderType returns the type of provider
	ProviderType() entities.ProviderType
}
