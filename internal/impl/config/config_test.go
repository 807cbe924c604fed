package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromEnvironment_Defaults(t *testing.T) {
	t.Setenv("GAURIKA_DATA_DIR", "/tmp/gaurika")
	for _, key := range []string{"GAURIKA_MODEL", "GAURIKA_PROVIDER", "GAURIKA_COMMAND_TIMEOUT", "GAURIKA_SEARCH_POLICY"} {
		t.Setenv(key, "")
	}

	cfg := FromEnvironment(nil, zap.NewNop())

	assert.Equal(t, "/tmp/gaurika", cfg.DataDir)
	assert.Equal(t, "cerebras", cfg.Provider)
	assert.Equal(t, "llama3.1-70b", cfg.Model)
	assert.Equal(t, 120*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 120*time.Second, cfg.ModelTimeout)
	assert.Equal(t, time.Second, cfg.SchedulerTick)
	assert.Equal(t, "direct", cfg.SearchPolicy)
}

func TestFromEnvironment_Overrides(t *testing.T) {
	t.Setenv("GAURIKA_MODEL", "gpt-4o")
	t.Setenv("GAURIKA_TEMPERATURE", "0.1")
	t.Setenv("GAURIKA_COMMAND_TIMEOUT", "30")
	t.Setenv("GAURIKA_MODEL_TIMEOUT", "2m")
	t.Setenv("GAURIKA_STREAM", "true")
	t.Setenv("GAURIKA_MAX_TOKENS", "not-a-number")

	cfg := FromEnvironment(&GlobalConfig{Provider: "groq", Model: "llama", MaxTokens: 1000}, zap.NewNop())

	assert.Equal(t, "groq", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 0.1, cfg.Temperature)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 2*time.Minute, cfg.ModelTimeout)
	assert.True(t, cfg.Stream)
	assert.Equal(t, 1000, cfg.MaxTokens)
}

func TestResolveAPIKey(t *testing.T) {
	provider, ok := entities.LookupProvider("groq")
	require.True(t, ok)

	t.Setenv("GAURIKA_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk-secret")
	cfg := FromEnvironment(nil, zap.NewNop())
	key, err := cfg.ResolveAPIKey(provider)
	require.NoError(t, err)
	assert.Equal(t, "gsk-secret", key)

	t.Setenv("GROQ_API_KEY", "")
	_, err = cfg.ResolveAPIKey(provider)
	assert.Error(t, err)

	cfg.APIKey = "#{OTHER_KEY}#"
	t.Setenv("OTHER_KEY", "other")
	key, err = cfg.ResolveAPIKey(provider)
	require.NoError(t, err)
	assert.Equal(t, "other", key)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "***", maskKey("abc"))
	assert.Equal(t, "****5678", maskKey("12345678"))
}

func TestGlobalConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaurika", "config.yaml")
	logger := zap.NewNop()

	missing, err := LoadGlobalConfig(path, logger)
	require.NoError(t, err)
	assert.Equal(t, DefaultGlobalConfig(), missing)

	custom := DefaultGlobalConfig()
	custom.Provider = "ollama"
	custom.Model = "llama3.1"
	require.NoError(t, SaveGlobalConfig(path, custom, logger))

	loaded, err := LoadGlobalConfig(path, logger)
	require.NoError(t, err)
	assert.Equal(t, custom, loaded)
}

func TestGlobalConfig_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: mixtral\n"), 0644))

	loaded, err := LoadGlobalConfig(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "mixtral", loaded.Model)
	assert.Equal(t, "cerebras", loaded.Provider)
}
