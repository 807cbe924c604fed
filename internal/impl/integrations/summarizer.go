package integrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const summarizerInstruction = "You condense scraped web pages for another assistant. " +
	"Answer from the provided text only, keep the facts precise and mention when the text does not contain the answer."

func summaryPrompt(query, text string) string {
	return fmt.Sprintf("Here is some scraped data:\n\n%s\nNow based on this, please answer the following in as much detail as possible: %s", text, query)
}

// geminiClient is the subset of the genai SDK used here.
type geminiClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type genaiModels struct {
	client *genai.Client
}

func (c *genaiModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}

// GeminiSummarizer answers a query from scraped text with a Gemini model.
type GeminiSummarizer struct {
	client geminiClient
	model  string
	logger *zap.Logger
}

func NewGeminiSummarizer(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSummarizer{
		client: &genaiModels{client: client},
		model:  model,
		logger: logger,
	}, nil
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, query, text string) (string, error) {
	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: genai.NewContentFromText(summarizerInstruction, genai.RoleUser),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(summaryPrompt(query, text), genai.RoleUser),
	}

	resp, err := s.client.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	s.logger.Debug("Gemini summary", zap.String("model", s.model), zap.Int("length", b.Len()))

	return strings.TrimSpace(b.String()), nil
}

// ModelSummarizer asks the chat model itself, for setups without a Gemini key.
type ModelSummarizer struct {
	model  interfaces.AIModelIntegration
	logger *zap.Logger
}

func NewModelSummarizer(model interfaces.AIModelIntegration, logger *zap.Logger) *ModelSummarizer {
	return &ModelSummarizer{model: model, logger: logger}
}

func (s *ModelSummarizer) Summarize(ctx context.Context, query, text string) (string, error) {
	resp, err := s.model.Complete(ctx, interfaces.CompletionRequest{
		Messages: []entities.Message{
			*entities.NewMessage(entities.RoleSystem, summarizerInstruction),
			*entities.NewMessage(entities.RoleUser, summaryPrompt(query, text)),
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

var (
	_ interfaces.Summarizer = (*GeminiSummarizer)(nil)
	_ interfaces.Summarizer = (*ModelSummarizer)(nil)
)
