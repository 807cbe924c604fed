package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShellTool_Run(t *testing.T) {
	shell := NewShellTool(zap.NewNop())

	tests := []struct {
		name     string
		command  string
		output   string
		exitCode int
	}{
		{name: "stdout", command: "echo hello", output: "hello\n", exitCode: 0},
		{name: "stderr is captured", command: "echo oops 1>&2", output: "oops\n", exitCode: 0},
		{name: "non-zero exit", command: "echo partial; exit 3", output: "partial\n", exitCode: 3},
		{name: "pipeline", command: "printf 'a\\nb\\n' | wc -l | tr -d ' '", output: "2\n", exitCode: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, code, err := shell.Run(context.Background(), tt.command, 5*time.Second)
			require.NoError(t, err)
			assert.Equal(t, tt.output, output)
			assert.Equal(t, tt.exitCode, code)
		})
	}
}

func TestShellTool_RunTimeout(t *testing.T) {
	shell := NewShellTool(zap.NewNop())

	start := time.Now()
	output, code, err := shell.Run(context.Background(), "echo started; sleep 10", 200*time.Millisecond)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, -1, code)
	assert.Equal(t, "started\n", output)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestShellTool_RunCanceled(t *testing.T) {
	shell := NewShellTool(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, code, err := shell.Run(ctx, "echo never", time.Second)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, -1, code)
}

type stubShell struct {
	outputs map[string]string
}

func (s *stubShell) Run(ctx context.Context, command string, timeout time.Duration) (string, int, error) {
	out, ok := s.outputs[command]
	if !ok {
		return "command not found\n", 127, nil
	}
	return out, 0, nil
}

func TestProbeSystemInfo(t *testing.T) {
	shell := &stubShell{outputs: map[string]string{
		"uname -s": "Linux\n",
		"uname -r": "6.1.0\n",
		`free -h | awk '/^Mem:/ {print $2}'`: "15Gi\n",
	}}

	info := ProbeSystemInfo(context.Background(), shell, zap.NewNop())

	assert.JSONEq(t, `{"OS":"Linux","Kernel":"6.1.0","CPU":"unknown","Memory":"15Gi"}`, info)
}
