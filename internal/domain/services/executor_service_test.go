package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/impl/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExecutorService_Execute(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("none trust never touches the shell", func(t *testing.T) {
		shell := new(mockShell)
		prompter := new(mockPrompter)
		audit := new(mockAuditLog)
		service := NewExecutorService(shell, prompter, audit, time.Minute, logger)

		result := service.Execute(ctx, "rm -rf /tmp/x", entities.TrustNone)

		assert.Equal(t, MsgCommandDisabled, result)
		shell.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
		prompter.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
		audit.AssertNotCalled(t, "AppendEntry", mock.Anything, mock.Anything)
	})

	t.Run("half trust declined", func(t *testing.T) {
		shell := new(mockShell)
		prompter := new(mockPrompter)
		audit := new(mockAuditLog)
		service := NewExecutorService(shell, prompter, audit, time.Minute, logger)
		prompter.On("Confirm", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()

		result := service.Execute(ctx, "reboot", entities.TrustHalf)

		assert.Equal(t, MsgCommandDeclined, result)
		shell.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
		prompter.AssertExpectations(t)
	})

	t.Run("half trust prompt error counts as declined", func(t *testing.T) {
		shell := new(mockShell)
		prompter := new(mockPrompter)
		service := NewExecutorService(shell, prompter, new(mockAuditLog), time.Minute, logger)
		prompter.On("Confirm", ctx, mock.Anything).Return(false, io.EOF).Once()

		assert.Equal(t, MsgCommandDeclined, service.Execute(ctx, "ls", entities.TrustHalf))
		shell.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("half trust confirmed runs and audits", func(t *testing.T) {
		shell := new(mockShell)
		prompter := new(mockPrompter)
		audit := new(mockAuditLog)
		service := NewExecutorService(shell, prompter, audit, time.Minute, logger)
		prompter.On("Confirm", ctx, mock.Anything).Return(true, nil).Once()
		shell.On("Run", ctx, "uptime", time.Minute).Return("up 2 days\n", 0, nil).Once()
		audit.On("AppendEntry", ctx, mock.MatchedBy(func(e *entities.AuditEntry) bool {
			return e.Command == "uptime" && e.Source == entities.AuditSourceTool
		})).Return(nil).Once()

		assert.Equal(t, "up 2 days\n", service.Execute(ctx, "uptime", entities.TrustHalf))
		shell.AssertExpectations(t)
		audit.AssertExpectations(t)
	})

	t.Run("non-zero exit is reported as a failure", func(t *testing.T) {
		shell := new(mockShell)
		audit := new(mockAuditLog)
		service := NewExecutorService(shell, new(mockPrompter), audit, time.Minute, logger)
		shell.On("Run", ctx, "cat nope", time.Minute).Return("cat: nope: No such file or directory\n", 1, nil).Once()
		audit.On("AppendEntry", ctx, mock.Anything).Return(nil).Once()

		result := service.Execute(ctx, "cat nope", entities.TrustFull)

		assert.Equal(t, "Command 'cat nope' failed with error:\ncat: nope: No such file or directory\n", result)
	})

	t.Run("timeout is reported as a failure", func(t *testing.T) {
		shell := new(mockShell)
		audit := new(mockAuditLog)
		service := NewExecutorService(shell, new(mockPrompter), audit, time.Second, logger)
		shell.On("Run", ctx, "sleep 10", time.Second).Return("", -1, context.DeadlineExceeded).Once()
		audit.On("AppendEntry", ctx, mock.Anything).Return(nil).Once()

		result := service.RunTrusted(ctx, "sleep 10", entities.AuditSourceScheduler)

		assert.True(t, result.TimedOut)
		assert.False(t, result.Success())
		assert.Contains(t, result.Text(), "timed out after 1s")
	})
}

func TestExecutorService_RealShell(t *testing.T) {
	ctx := context.Background()
	audit := new(mockAuditLog)
	audit.On("AppendEntry", ctx, mock.Anything).Return(nil)
	service := NewExecutorService(tools.NewShellTool(zap.NewNop()), new(mockPrompter), audit, 10*time.Second, zap.NewNop())

	result := service.Execute(ctx, "echo hi", entities.TrustFull)
	assert.Contains(t, result, "hi")

	failed := service.RunTrusted(ctx, "exit 3", entities.AuditSourceTool)
	require.NotNil(t, failed)
	assert.Equal(t, 3, failed.ExitCode)
	assert.Contains(t, failed.Text(), "Command 'exit 3' failed with error:")
}
