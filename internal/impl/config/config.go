package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	MongoURI      string
	MongoDatabase string
	DataDir       string
	LogLevel      string

	Provider      string
	BaseURL       string
	Model         string
	APIKey        string
	Temperature   float64
	MaxTokens     int
	ContextWindow int
	Stream        bool
	ModelTimeout  time.Duration

	CommandTimeout time.Duration
	SchedulerTick  time.Duration

	SearchPolicy   string
	SearchAPIKey   string
	SearchEngineID string
	SearchMaxPages int
	SearchWorkers  int
	FetchTimeout   time.Duration
	RenderJS       bool
	GeminiAPIKey   string
	GeminiModel    string

	logger *zap.Logger
}

var (
	configInstance *Config
	once           sync.Once
)

func InitConfig() (*Config, error) {
	var initErr error

	once.Do(func() {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err := config.Build()
		if err != nil {
			logger = zap.NewNop()
			initErr = fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()

		// Load .env file
		if err := godotenv.Load(); err != nil {
			if os.IsNotExist(err) {
				logger.Debug("No .env file found; falling back to system environment variables")
			} else {
				initErr = fmt.Errorf("failed to load .env file: %w", err)
				logger.Error("Config file load error", zap.Error(err))
				return
			}
		} else {
			logger.Debug("Successfully loaded .env file")
		}

		global, err := LoadGlobalConfig(DefaultGlobalConfigPath(), logger)
		if err != nil {
			logger.Warn("Ignoring global config", zap.Error(err))
			global = DefaultGlobalConfig()
		}

		configInstance = FromEnvironment(global, logger)
	})

	if initErr != nil {
		return nil, initErr
	}
	if configInstance == nil {
		return nil, fmt.Errorf("configuration initialization failed unexpectedly")
	}

	return configInstance, nil
}

// FromEnvironment builds a Config from the process environment, using global
// for anything the environment does not set.
func FromEnvironment(global *GlobalConfig, logger *zap.Logger) *Config {
	if global == nil {
		global = DefaultGlobalConfig()
	}
	r := envReader{logger: logger}

	cfg := &Config{
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: r.String("MONGO_DATABASE", "gaurika"),
		DataDir:       os.Getenv("GAURIKA_DATA_DIR"),
		LogLevel:      r.String("GAURIKA_LOG_LEVEL", "warn"),

		Provider:      r.String("GAURIKA_PROVIDER", global.Provider),
		BaseURL:       r.String("GAURIKA_BASE_URL", global.BaseURL),
		Model:         r.String("GAURIKA_MODEL", global.Model),
		APIKey:        os.Getenv("GAURIKA_API_KEY"),
		Temperature:   r.Float("GAURIKA_TEMPERATURE", global.Temperature),
		MaxTokens:     r.Int("GAURIKA_MAX_TOKENS", global.MaxTokens),
		ContextWindow: r.Int("GAURIKA_CONTEXT_WINDOW", global.ContextWindow),
		Stream:        r.Bool("GAURIKA_STREAM", global.Stream),
		ModelTimeout:  r.Duration("GAURIKA_MODEL_TIMEOUT", 120*time.Second),

		CommandTimeout: r.Duration("GAURIKA_COMMAND_TIMEOUT", 120*time.Second),
		SchedulerTick:  r.Duration("GAURIKA_SCHEDULER_TICK", time.Second),

		SearchPolicy:   r.String("GAURIKA_SEARCH_POLICY", global.SearchPolicy),
		SearchAPIKey:   os.Getenv("CSE_API_KEY"),
		SearchEngineID: os.Getenv("SEARCH_ENGINE_ID"),
		SearchMaxPages: r.Int("GAURIKA_SEARCH_MAX_PAGES", 5),
		SearchWorkers:  r.Int("GAURIKA_SEARCH_WORKERS", 5),
		FetchTimeout:   r.Duration("GAURIKA_FETCH_TIMEOUT", 10*time.Second),
		RenderJS:       r.Bool("GAURIKA_RENDER_JS", false),
		GeminiAPIKey:   r.String("GEMINI_API_KEY", os.Getenv("GEM")),
		GeminiModel:    r.String("GEMINI_MODEL", global.GeminiModel),

		logger: logger,
	}

	if cfg.DataDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.DataDir = wd
		}
	}

	return cfg
}

// ResolveAPIKey returns the key for provider: GAURIKA_API_KEY when set,
// otherwise the provider's own environment variable.
func (c *Config) ResolveAPIKey(provider entities.Provider) (string, error) {
	if c.APIKey != "" {
		return c.ResolveEnvironmentVariable(c.APIKey)
	}
	return c.ResolveEnvironmentVariable("#{" + provider.APIKeyName + "}#")
}

func (c *Config) ResolveEnvironmentVariable(value string) (string, error) {
	const prefix, suffix = "#{", "}#"
	if strings.HasPrefix(value, prefix) && strings.HasSuffix(value, suffix) {
		varName := strings.TrimSuffix(strings.TrimPrefix(value, prefix), suffix)
		if varName == "" {
			return "", fmt.Errorf("empty variable name in reference: %s", value)
		}

		resolved := os.Getenv(varName)
		if resolved == "" {
			c.logger.Warn("Environment variable not found for reference",
				zap.String("reference", value),
				zap.String("var_name", varName))
			return "", fmt.Errorf("environment variable '%s' not found", varName)
		}

		c.logger.Debug("Resolved environment variable",
			zap.String("var_name", varName),
			zap.String("resolved", maskKey(resolved)))
		return resolved, nil
	}

	c.logger.Debug("Using raw value", zap.String("value", maskKey(value)))
	return value, nil
}

// NewLogger builds the development logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	config.Level = level
	return config.Build()
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

type envReader struct {
	logger *zap.Logger
}

func (r envReader) String(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r envReader) Int(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.logger.Warn("Invalid integer in environment, using default", zap.String("key", key), zap.String("value", v))
		return def
	}
	return n
}

func (r envReader) Float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.logger.Warn("Invalid number in environment, using default", zap.String("key", key), zap.String("value", v))
		return def
	}
	return f
}

func (r envReader) Bool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.logger.Warn("Invalid boolean in environment, using default", zap.String("key", key), zap.String("value", v))
		return def
	}
	return b
}

// duration accepts Go durations ("90s", "2m") or a plain number of seconds.
func (r envReader) Duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		r.logger.Warn("Invalid duration in environment, using default", zap.String("key", key), zap.String("value", v))
		return def
	}
	return d
}
