package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

type TurnState string

const (
	StateAwaitingUserInput TurnState = "awaiting_user_input"
	StateModelRequested    TurnState = "model_requested"
	StatePlainAnswer       TurnState = "plain_answer"
	StateToolCallsPending  TurnState = "tool_calls_pending"
	StateToolsDispatched   TurnState = "tools_dispatched"
	StateFollowupRequested TurnState = "followup_requested"
	StateAnswerFinalized   TurnState = "answer_finalized"
	StatePersisted         TurnState = "persisted"
	StateClosed            TurnState = "closed"
)

// ToolCallPlaceholder is the content of an assistant tool-call message that carried no text.
const ToolCallPlaceholder = "Executing tool call."

var exitPhrases = []string{"exit", "quit", "bye"}

// IsExitPhrase reports whether the user asked to end the session.
func IsExitPhrase(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, phrase := range exitPhrases {
		if text == phrase {
			return true
		}
	}
	return false
}

type ChatOptions struct {
	Temperature   float64
	MaxTokens     int
	ContextWindow int
	// Stream receives the model's text as it is generated. Optional.
	Stream io.Writer
	// SystemPrompt rebuilds the system message when the trust mode changes. Optional.
	SystemPrompt func(trust entities.TrustMode) string
}

type ChatService interface {
	LoadHistory(ctx context.Context, systemPrompt string) error
	History() []entities.Message
	SendMessage(ctx context.Context, text string) (*entities.Message, error)
	State() TurnState
	TrustMode() entities.TrustMode
	SetTrustMode(mode entities.TrustMode)
	LastTurnDuration() time.Duration
	Close()
}

type chatService struct {
	historyRepo interfaces.HistoryRepository
	model       interfaces.AIModelIntegration
	dispatcher  DispatcherService
	options     ChatOptions
	countTokens tokenCounter
	logger      *zap.Logger

	mu       sync.Mutex
	history  []entities.Message
	trust    entities.TrustMode
	state    TurnState
	lastTurn time.Duration
}

func NewChatService(
	historyRepo interfaces.HistoryRepository,
	model interfaces.AIModelIntegration,
	dispatcher DispatcherService,
	trust entities.TrustMode,
	options ChatOptions,
	logger *zap.Logger,
) *chatService {
	return &chatService{
		historyRepo: historyRepo,
		model:       model,
		dispatcher:  dispatcher,
		options:     options,
		countTokens: estimateTokens,
		logger:      logger,
		trust:       trust,
		state:       StateAwaitingUserInput,
	}
}

// LoadHistory restores the persisted conversation and makes sure it opens
// with a system message.
func (s *chatService) LoadHistory(ctx context.Context, systemPrompt string) error {
	history, err := s.historyRepo.LoadHistory(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = entities.EnsureSystem(history, systemPrompt)
	return nil
}

func (s *chatService) History() []entities.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Message(nil), s.history...)
}

func (s *chatService) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *chatService) TrustMode() entities.TrustMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trust
}

// SetTrustMode changes the trust mode for later turns. The system message is
// rebuilt so the model is told about the new mode too.
func (s *chatService) SetTrustMode(mode entities.TrustMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trust = mode

	if s.options.SystemPrompt != nil && len(s.history) > 0 && s.history[0].Role == entities.RoleSystem {
		s.history[0].Content = s.options.SystemPrompt(mode)
	}
}

func (s *chatService) LastTurnDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTurn
}

func (s *chatService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setState(StateClosed)
}

// SendMessage runs one full turn. On a model failure the history is rolled
// back to where it was before the turn and nothing is persisted.
func (s *chatService) SendMessage(ctx context.Context, text string) (*entities.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.ValidationErrorf("message content is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil, errs.CanceledErrorf("conversation is closed")
	}

	start := time.Now()
	mark := len(s.history)
	s.history = append(s.history, *entities.NewMessage(entities.RoleUser, text))

	s.setState(StateModelRequested)
	first, err := s.complete(ctx, interfaces.ToolChoiceAuto)
	if err != nil {
		return nil, s.abort(ctx, mark, err)
	}

	answer := first.Content
	if len(first.ToolCalls) == 0 {
		s.setState(StatePlainAnswer)
	} else {
		s.setState(StateToolCallsPending)

		content := first.Content
		if content == "" {
			content = ToolCallPlaceholder
		}
		call := entities.NewMessage(entities.RoleAssistant, content)
		call.ToolCalls = first.ToolCalls
		s.history = append(s.history, *call)

		result := s.dispatcher.Dispatch(ctx, first.ToolCalls, s.trust)
		s.history = append(s.history, result.Messages...)
		s.setState(StateToolsDispatched)

		if result.HasDirectAnswer {
			answer = joinAnswer(first.Content, result.DirectAnswer)
			s.streamDirectAnswer(first.Content, result.DirectAnswer)
		} else {
			s.setState(StateFollowupRequested)
			followup, err := s.complete(ctx, interfaces.ToolChoiceNone)
			if err != nil {
				return nil, s.abort(ctx, mark, err)
			}
			answer = joinAnswer(first.Content, followup.Content)
		}
	}

	reply := entities.NewMessage(entities.RoleAssistant, answer)
	s.history = append(s.history, *reply)
	s.setState(StateAnswerFinalized)
	s.lastTurn = time.Since(start)

	if err := s.historyRepo.SaveHistory(ctx, s.history); err != nil {
		s.logger.Error("Failed to persist conversation history", zap.Error(err))
		s.setState(StateAwaitingUserInput)
		return reply, errs.InternalErrorf("failed to save conversation history: %v", err)
	}
	s.setState(StatePersisted)
	s.setState(StateAwaitingUserInput)

	return reply, nil
}

func (s *chatService) complete(ctx context.Context, toolChoice string) (*interfaces.CompletionResponse, error) {
	messages := trimToWindow(s.history, s.options.ContextWindow, s.countTokens)
	if len(messages) < len(s.history) {
		s.logger.Debug("Trimmed history to fit the context window",
			zap.Int("kept", len(messages)),
			zap.Int("total", len(s.history)))
	}

	return s.model.Complete(ctx, interfaces.CompletionRequest{
		Messages:    messages,
		Tools:       s.dispatcher.Tools(),
		ToolChoice:  toolChoice,
		Temperature: s.options.Temperature,
		MaxTokens:   s.options.MaxTokens,
		Stream:      s.options.Stream,
	})
}

// streamDirectAnswer writes a search answer to the stream, since it never
// passed through the model.
func (s *chatService) streamDirectAnswer(partial, answer string) {
	if s.options.Stream == nil {
		return
	}
	if partial != "" {
		answer = "\n" + answer
	}
	if _, err := io.WriteString(s.options.Stream, answer); err != nil {
		s.logger.Warn("Failed to stream search answer", zap.Error(err))
	}
}

// joinAnswer puts text the model produced alongside its tool calls in front
// of the answer that completes the turn.
func joinAnswer(partial, answer string) string {
	if partial == "" {
		return answer
	}
	return partial + "\n" + answer
}

func (s *chatService) abort(ctx context.Context, mark int, cause error) error {
	s.history = s.history[:mark]
	s.setState(StateAwaitingUserInput)

	if ctx.Err() == context.Canceled {
		return errs.CanceledErrorf("message processing was canceled")
	}
	s.logger.Error("Model request failed, turn rolled back", zap.Error(cause))
	return errs.ModelUnavailableErrorf(cause, "the model could not be reached")
}

func (s *chatService) setState(state TurnState) {
	s.logger.Debug("Turn state", zap.String("from", string(s.state)), zap.String("to", string(state)))
	s.state = state
}
