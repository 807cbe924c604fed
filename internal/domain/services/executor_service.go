package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

const (
	MsgCommandDeclined = "Command execution disallowed by the user."
	MsgCommandDisabled = "Command execution is disabled in this trust mode."
)

type ExecutorService interface {
	// Execute applies the trust gate and returns the text the model should see.
	Execute(ctx context.Context, command string, trust entities.TrustMode) string
	// RunTrusted runs without any gate and records the run under source.
	RunTrusted(ctx context.Context, command, source string) *entities.CommandResult
}

type executorService struct {
	shell    interfaces.ShellRunner
	prompter interfaces.Prompter
	auditLog interfaces.AuditLogRepository
	timeout  time.Duration
	logger   *zap.Logger
}

func NewExecutorService(
	shell interfaces.ShellRunner,
	prompter interfaces.Prompter,
	auditLog interfaces.AuditLogRepository,
	timeout time.Duration,
	logger *zap.Logger,
) *executorService {
	return &executorService{
		shell:    shell,
		prompter: prompter,
		auditLog: auditLog,
		timeout:  timeout,
		logger:   logger,
	}
}

func (s *executorService) Execute(ctx context.Context, command string, trust entities.TrustMode) string {
	switch trust {
	case entities.TrustFull:
	case entities.TrustHalf:
		question := fmt.Sprintf("The assistant wants to run the command: %s\nDo you want to allow it?", command)
		allowed, err := s.prompter.Confirm(ctx, question)
		if err != nil {
			s.logger.Warn("Confirmation failed, treating as declined", zap.String("command", command), zap.Error(err))
			return MsgCommandDeclined
		}
		if !allowed {
			return MsgCommandDeclined
		}
	default:
		return MsgCommandDisabled
	}

	return s.RunTrusted(ctx, command, entities.AuditSourceTool).Text()
}

func (s *executorService) RunTrusted(ctx context.Context, command, source string) *entities.CommandResult {
	start := time.Now()
	output, exitCode, err := s.shell.Run(ctx, command, s.timeout)
	result := &entities.CommandResult{
		Command:  command,
		ExitCode: exitCode,
		Output:   output,
		Duration: time.Since(start),
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			result.TimedOut = true
			result.Output = fmt.Sprintf("%scommand timed out after %s", withNewline(output), s.timeout)
		} else {
			result.Output = fmt.Sprintf("%s%v", withNewline(output), err)
		}
		if result.ExitCode == 0 {
			result.ExitCode = -1
		}
	}

	s.logger.Debug("Command finished",
		zap.String("command", command),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration),
		zap.String("source", source))

	if err := s.auditLog.AppendEntry(ctx, entities.NewAuditEntry(command, result.Output, source)); err != nil {
		s.logger.Error("Failed to append to command history", zap.String("command", command), zap.Error(err))
	}

	return result
}

func withNewline(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}
