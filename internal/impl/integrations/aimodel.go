package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxAttempts = 3

// AIModelIntegration talks to any OpenAI-compatible chat completions endpoint.
type AIModelIntegration struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	model      string
	stream     bool
	logger     *zap.Logger
	// backoff between retries, replaced in tests
	backoff func(attempt int) time.Duration
}

// NewAIModelIntegration creates a client for endpoint, the full /chat/completions URL.
func NewAIModelIntegration(endpoint, apiKey, model string, timeout time.Duration, stream bool, logger *zap.Logger) (*AIModelIntegration, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &AIModelIntegration{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		model:      model,
		stream:     stream,
		logger:     logger,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt+1) * time.Second
		},
	}, nil
}

// ModelName returns the name of the model being used
func (m *AIModelIntegration) ModelName() string {
	return m.model
}

// ProviderType returns the type of provider
func (m *AIModelIntegration) ProviderType() entities.ProviderType {
	return entities.ProviderGeneric
}

// convertToAPIMessages converts message entities to the chat completions format
func convertToAPIMessages(messages []entities.Message) []map[string]any {
	apiMessages := make([]map[string]any, 0, len(messages))
	for _, msg := range messages {
		apiMsg := map[string]any{
			"role":    msg.Role,
			"content": msg.Content,
		}
		switch {
		case msg.Role == entities.RoleAssistant && len(msg.ToolCalls) > 0:
			apiMsg["tool_calls"] = msg.ToolCalls
			if msg.Content == "" {
				apiMsg["content"] = "Executing tool call."
			}
		case msg.Role == entities.RoleTool:
			apiMsg["tool_call_id"] = msg.ToolCallID
			if msg.Name != "" {
				apiMsg["name"] = msg.Name
			}
		}
		apiMessages = append(apiMessages, apiMsg)
	}
	return apiMessages
}

func (m *AIModelIntegration) buildRequestBody(req interfaces.CompletionRequest) map[string]any {
	reqBody := map[string]any{
		"model":       m.model,
		"messages":    convertToAPIMessages(req.Messages),
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		reqBody["max_tokens"] = req.MaxTokens
	}
	if len(req.Tools) > 0 {
		tools := make([]map[string]any, len(req.Tools))
		for i, tool := range req.Tools {
			tools[i] = tool.Schema()
		}
		reqBody["tools"] = tools
		if req.ToolChoice != "" {
			reqBody["tool_choice"] = req.ToolChoice
		}
	}
	if m.stream {
		reqBody["stream"] = true
	}
	return reqBody
}

// Complete sends one chat completions request. Rate limits and transport
// errors are retried with a linear backoff.
func (m *AIModelIntegration) Complete(ctx context.Context, req interfaces.CompletionRequest) (*interfaces.CompletionResponse, error) {
	jsonBody, err := json.Marshal(m.buildRequestBody(req))
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %v", err)
	}

	resp, err := m.post(ctx, jsonBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result *interfaces.CompletionResponse
	if m.stream {
		result, err = readStream(resp.Body, req.Stream)
	} else {
		result, err = readResponse(resp.Body)
	}
	if err != nil {
		return nil, err
	}

	for i := range result.ToolCalls {
		if result.ToolCalls[i].ID == "" {
			result.ToolCalls[i].ID = "call_" + uuid.New().String()
		}
		if result.ToolCalls[i].Type == "" {
			result.ToolCalls[i].Type = "function"
		}
	}

	m.logger.Debug("AI response analysis",
		zap.String("finishReason", result.FinishReason),
		zap.Int("toolCallsCount", len(result.ToolCalls)),
		zap.Bool("hasContent", result.Content != ""))

	// Handle different finish_reason values
	switch result.FinishReason {
	case "stop", "tool_calls", "":
	case "length":
		if len(result.ToolCalls) == 0 {
			m.logger.Warn("AI finished due to length limit")
			result.Content += "\n\n[Response truncated due to length limit]"
		}
	case "content_filter":
		if len(result.ToolCalls) == 0 {
			m.logger.Warn("AI finished due to content filter")
			result.Content += "\n\n[Response filtered by content policy]"
		}
	default:
		m.logger.Warn("Unknown finish_reason - treating as completion", zap.String("finishReason", result.FinishReason))
	}

	return result, nil
}

func (m *AIModelIntegration) post(ctx context.Context, jsonBody []byte) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(m.backoff(attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("error creating request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
		if m.stream {
			req.Header.Set("Accept", "text/event-stream")
		}

		resp, err := m.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.logger.Warn("Error making request, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
			lastErr = fmt.Errorf("error making request: %v", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			m.logger.Warn("Retryable status from model", zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt+1))
			if resp.StatusCode == http.StatusTooManyRequests {
				lastErr = fmt.Errorf("rate limit exceeded")
			} else {
				lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}
		default:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			m.logger.Error("Unexpected status code", zap.Int("status", resp.StatusCode), zap.String("body", string(body)))
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
	}
	return nil, lastErr
}

func readResponse(body io.Reader) (*interfaces.CompletionResponse, error) {
	var responseBody struct {
		Choices []struct {
			FinishReason string `json:"finish_reason"`
			Message      struct {
				Content   string              `json:"content"`
				ToolCalls []entities.ToolCall `json:"tool_calls,omitempty"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(body).Decode(&responseBody); err != nil {
		return nil, fmt.Errorf("error decoding response: %v", err)
	}
	if len(responseBody.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := responseBody.Choices[0]
	return &interfaces.CompletionResponse{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
	}, nil
}

// Ensure AIModelIntegration implements the AIModelIntegration interface
var _ interfaces.AIModelIntegration = (*AIModelIntegration)(nil)
