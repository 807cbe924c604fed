package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.uber.org/zap"
)

var systemProbes = []struct {
	key     string
	command string
}{
	{"OS", "uname -s"},
	{"Kernel", "uname -r"},
	{"CPU", `lscpu | grep "Model name" | cut -d ":" -f 2`},
	{"Memory", `free -h | awk '/^Mem:/ {print $2}'`},
}

// ProbeSystemInfo collects a few facts about the host as indented JSON.
// Probes that fail are reported as "unknown".
func ProbeSystemInfo(ctx context.Context, shell interfaces.ShellRunner, logger *zap.Logger) string {
	info := make(map[string]string, len(systemProbes))
	for _, probe := range systemProbes {
		output, code, err := shell.Run(ctx, probe.command, 5*time.Second)
		value := strings.TrimSpace(output)
		if err != nil || code != 0 || value == "" {
			logger.Debug("System probe failed", zap.String("probe", probe.key), zap.Int("exit_code", code), zap.Error(err))
			value = "unknown"
		}
		info[probe.key] = value
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
