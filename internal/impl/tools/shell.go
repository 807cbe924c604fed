package tools

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

// ShellTool runs command lines through bash and captures stdout and stderr together.
type ShellTool struct {
	shell  string
	dir    string
	logger *zap.Logger
}

func NewShellTool(logger *zap.Logger) *ShellTool {
	dir, err := os.Getwd()
	if err != nil {
		dir = ""
	}
	return &ShellTool{
		shell:  "bash",
		dir:    dir,
		logger: logger,
	}
}

// Run executes command. A non-zero exit is reported through exitCode with a nil
// error; err is set only when the command could not run to completion.
func (t *ShellTool) Run(ctx context.Context, command string, timeout time.Duration) (string, int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, t.shell, "-c", command)
	cmd.Dir = t.dir
	cmd.Env = os.Environ()

	// Kill the whole process group so pipelines and background children die with the shell.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 2 * time.Second

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	t.logger.Debug("Executing shell command", zap.String("command", command))
	err := cmd.Run()
	output := out.String()

	if ctxErr := ctx.Err(); ctxErr != nil {
		t.logger.Warn("Shell command interrupted", zap.String("command", command), zap.Error(ctxErr))
		return output, -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, exitErr.ExitCode(), nil
	}
	if err != nil {
		t.logger.Error("Failed to run shell command", zap.String("command", command), zap.Error(err))
		return output, -1, err
	}

	return output, 0, nil
}

var _ interfaces.ShellRunner = (*ShellTool)(nil)
