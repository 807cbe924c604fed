package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/events"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

type SearchPolicy string

const (
	// SearchPolicyDirect returns the search summary to the user as the final answer.
	SearchPolicyDirect SearchPolicy = "direct"
	// SearchPolicyNarrate hands the summary to the model for a follow-up reply.
	SearchPolicyNarrate SearchPolicy = "narrate"
)

const (
	MsgScheduleDeclined = "Task scheduling disallowed by the user."
	MsgScheduleDisabled = "Task scheduling is disabled in this trust mode."
	MsgRemoveDeclined   = "Task removal disallowed by the user."
	MsgRemoveDisabled   = "Task removal is disabled in this trust mode."
	MsgSearchSkipped    = "A web search already answered this turn; this search was skipped."
)

type DispatchResult struct {
	Messages        []entities.Message
	DirectAnswer    string
	HasDirectAnswer bool
	// Errors holds the decode or search error for a call, keyed by tool call id.
	Errors map[string]error
}

type DispatcherService interface {
	Dispatch(ctx context.Context, calls []entities.ToolCall, trust entities.TrustMode) DispatchResult
	Tools() []entities.ToolDefinition
}

type dispatcherService struct {
	executor  ExecutorService
	scheduler SchedulerService
	searcher  interfaces.Searcher
	prompter  interfaces.Prompter
	policy    SearchPolicy
	logger    *zap.Logger
}

func NewDispatcherService(
	executor ExecutorService,
	scheduler SchedulerService,
	searcher interfaces.Searcher,
	prompter interfaces.Prompter,
	policy SearchPolicy,
	logger *zap.Logger,
) *dispatcherService {
	if policy != SearchPolicyNarrate {
		policy = SearchPolicyDirect
	}
	return &dispatcherService{
		executor:  executor,
		scheduler: scheduler,
		searcher:  searcher,
		prompter:  prompter,
		policy:    policy,
		logger:    logger,
	}
}

func (s *dispatcherService) Tools() []entities.ToolDefinition {
	return entities.DefaultTools()
}

// Dispatch answers every call with exactly one tool message, in call order.
// Searches run after all other calls so that a direct search answer sees the
// effects of commands issued in the same turn.
func (s *dispatcherService) Dispatch(ctx context.Context, calls []entities.ToolCall, trust entities.TrustMode) DispatchResult {
	contents := make([]string, len(calls))
	failures := make(map[string]error)
	var searches []int

	for i, call := range calls {
		inv, err := entities.DecodeInvocation(call)
		if err != nil {
			s.logger.Warn("Rejected tool call",
				zap.String("tool_call_id", call.ID),
				zap.String("tool", call.Function.Name),
				zap.Error(err))
			contents[i] = errorContent(err)
			failures[call.ID] = err
			s.publish(call, "", err)
			continue
		}
		if _, ok := inv.(*entities.WebSearch); ok {
			searches = append(searches, i)
			continue
		}
		contents[i] = s.invoke(ctx, inv, trust)
		s.publish(call, contents[i], nil)
	}

	result := DispatchResult{Errors: failures}
	for _, i := range searches {
		call := calls[i]
		if result.HasDirectAnswer {
			contents[i] = MsgSearchSkipped
			s.publish(call, contents[i], nil)
			continue
		}

		inv, _ := entities.DecodeInvocation(call)
		query := inv.(*entities.WebSearch).Query
		answer, err := s.searcher.Search(ctx, query)
		if err != nil {
			s.logger.Error("Web search failed", zap.String("query", query), zap.Error(err))
			contents[i] = fmt.Sprintf("error: web search failed: %v", err)
			failures[call.ID] = err
			s.publish(call, "", err)
			continue
		}

		contents[i] = answer
		s.publish(call, answer, nil)
		if s.policy == SearchPolicyDirect {
			result.DirectAnswer = answer
			result.HasDirectAnswer = true
		}
	}

	result.Messages = make([]entities.Message, len(calls))
	for i, call := range calls {
		result.Messages[i] = *entities.NewToolMessage(call.ID, call.Function.Name, contents[i])
	}
	return result
}

// errorContent renders a rejected call, tagged with the error kind so the
// model can tell an unknown tool from bad arguments.
func errorContent(err error) string {
	var unknown *errs.UnknownToolError
	var invalid *errs.ValidationError
	switch {
	case errors.As(err, &unknown):
		return fmt.Sprintf("error: UnknownToolError: %v", err)
	case errors.As(err, &invalid):
		return fmt.Sprintf("error: ValidationError: %v", err)
	}
	return fmt.Sprintf("error: %v", err)
}

func (s *dispatcherService) invoke(ctx context.Context, inv entities.Invocation, trust entities.TrustMode) string {
	switch c := inv.(type) {
	case *entities.RunCommand:
		return s.executor.Execute(ctx, c.Command, trust)
	case *entities.ScheduleTask:
		question := fmt.Sprintf("The assistant wants to schedule task '%s' to run '%s' every %d seconds.\nDo you want to allow it?", c.Name, c.Command, c.Interval)
		if msg, ok := s.gate(ctx, trust, question, MsgScheduleDeclined, MsgScheduleDisabled); !ok {
			return msg
		}
		if _, err := s.scheduler.Add(c.Name, c.Command, c.Interval); err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return fmt.Sprintf("Task '%s' scheduled to run command '%s' every %d seconds.", c.Name, c.Command, c.Interval)
	case *entities.RemoveScheduledTask:
		question := fmt.Sprintf("The assistant wants to remove scheduled task '%s'.\nDo you want to allow it?", c.Name)
		if msg, ok := s.gate(ctx, trust, question, MsgRemoveDeclined, MsgRemoveDisabled); !ok {
			return msg
		}
		if err := s.scheduler.Remove(c.Name); err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return fmt.Sprintf("Task '%s' removed from schedule.", c.Name)
	}
	return fmt.Sprintf("error: unsupported tool %q", inv.ToolName())
}

// gate applies the trust mode to a schedule change. It returns false with the
// refusal text when the change must not happen.
func (s *dispatcherService) gate(ctx context.Context, trust entities.TrustMode, question, declined, disabled string) (string, bool) {
	switch trust {
	case entities.TrustFull:
		return "", true
	case entities.TrustHalf:
		allowed, err := s.prompter.Confirm(ctx, question)
		if err != nil {
			s.logger.Warn("Confirmation failed, treating as declined", zap.Error(err))
			return declined, false
		}
		if !allowed {
			return declined, false
		}
		return "", true
	default:
		return disabled, false
	}
}

func (s *dispatcherService) publish(call entities.ToolCall, result string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	events.PublishToolCallEvent(entities.NewToolCallEvent(call.ID, call.Function.Name, call.Function.Arguments, result, errMsg))
}
