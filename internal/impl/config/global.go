package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/drujensen/gaurika/internal/domain/entities"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents the global configuration settings
type GlobalConfig struct {
	Provider      string  `yaml:"provider"`
	BaseURL       string  `yaml:"base_url,omitempty"`
	Model         string  `yaml:"model"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
	ContextWindow int     `yaml:"context_window"`
	Stream        bool    `yaml:"stream"`
	SearchPolicy  string  `yaml:"search_policy"`
	GeminiModel   string  `yaml:"gemini_model"`
}

// DefaultGlobalConfig returns the default global configuration
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Provider:      string(entities.ProviderCerebras),
		Model:         "llama3.1-70b",
		Temperature:   0.5,
		MaxTokens:     4096,
		ContextWindow: 8192,
		SearchPolicy:  "direct",
		GeminiModel:   "gemini-1.5-flash",
	}
}

// DefaultGlobalConfigPath is ~/.config/gaurika/config.yaml
func DefaultGlobalConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "gaurika", "config.yaml")
}

// LoadGlobalConfig reads the YAML file at path. Missing keys keep their defaults.
func LoadGlobalConfig(path string, logger *zap.Logger) (*GlobalConfig, error) {
	// Start with defaults
	config := DefaultGlobalConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Global config file not found, using defaults", zap.String("path", path))
			return config, nil
		}
		return nil, fmt.Errorf("failed to read global config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		logger.Warn("Failed to parse global config file, using defaults", zap.Error(err), zap.String("path", path))
		return DefaultGlobalConfig(), nil
	}

	logger.Debug("Loaded global config", zap.String("path", path))
	return config, nil
}

// SaveGlobalConfig writes config to path, creating the directory if needed.
func SaveGlobalConfig(path string, config *GlobalConfig, logger *zap.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logger.Debug("Saved global config", zap.String("path", path))
	return nil
}
