package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drujensen/gaurika/internal/cli"
	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/interfaces"
	"github.com/drujensen/gaurika/internal/domain/services"
	"github.com/drujensen/gaurika/internal/impl/config"
	"github.com/drujensen/gaurika/internal/impl/database"
	"github.com/drujensen/gaurika/internal/impl/integrations"
	repositoriesJson "github.com/drujensen/gaurika/internal/impl/repositories/json"
	repositoriesMongo "github.com/drujensen/gaurika/internal/impl/repositories/mongo"
	"github.com/drujensen/gaurika/internal/impl/tools"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "unknown" // This should be set during build with -ldflags="-X main.version=1.0.0"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var storage string

	root := &cobra.Command{
		Use:           "gaurika",
		Short:         "Gaurika, a Linux assistant that can run commands, search the web and schedule tasks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if storage != "file" && storage != "mongo" {
				return fmt.Errorf("invalid storage type: %s (expected file or mongo)", storage)
			}
			return run(cmd.Context(), storage)
		},
	}
	root.Flags().StringVar(&storage, "storage", "file", "Storage type: file or mongo")

	root.AddCommand(newConfigCommand())
	return root
}

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the global configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a global config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultGlobalConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveGlobalConfig(path, config.DefaultGlobalConfig(), zap.NewNop()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(initCmd)
	return configCmd
}

func run(ctx context.Context, storage string) error {
	cfg, err := config.InitConfig()
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	var historyRepo interfaces.HistoryRepository
	var auditLogRepo interfaces.AuditLogRepository
	prefsRepo := repositoriesJson.NewJSONPreferencesRepository(cfg.DataDir, logger)

	if storage == "mongo" {
		db, err := database.NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Error("Failed to connect to MongoDB", zap.Error(err))
			return err
		}
		defer db.Disconnect(context.Background())

		historyRepo = repositoriesMongo.NewMongoHistoryRepository(db.Collection("history"))
		auditLogRepo = repositoriesMongo.NewMongoAuditLogRepository(db.Collection("command_history"))
	} else {
		historyRepo = repositoriesJson.NewJSONHistoryRepository(cfg.DataDir, logger)
		auditLogRepo = repositoriesJson.NewTextAuditLogRepository(cfg.DataDir)
	}

	console := cli.NewConsole(os.Stdin, os.Stdout)
	render := cli.NewRenderer(os.Stdout, !cfg.Stream)

	preferencesService := services.NewPreferencesService(prefsRepo, console, logger)
	prefs, err := preferencesService.LoadOrCreate(ctx)
	if err != nil {
		logger.Error("Failed to load preferences", zap.Error(err))
		return err
	}

	model, err := newModel(cfg, logger)
	if err != nil {
		return err
	}

	shell := tools.NewShellTool(logger)
	executorService := services.NewExecutorService(shell, console, auditLogRepo, cfg.CommandTimeout, logger)
	schedulerService := services.NewSchedulerService(executorService, cfg.SchedulerTick, logger)

	searcher, closeSearch, err := newSearcher(ctx, cfg, model, logger)
	if err != nil {
		return err
	}
	defer closeSearch()

	dispatcherService := services.NewDispatcherService(
		executorService,
		schedulerService,
		searcher,
		console,
		services.SearchPolicy(cfg.SearchPolicy),
		logger,
	)

	systemInfo := tools.ProbeSystemInfo(ctx, shell, logger)
	promptFor := func(trust entities.TrustMode) string {
		current := *prefs
		current.TrustMode = trust
		return services.BuildSystemPrompt(&current, systemInfo, dispatcherService.Tools(), time.Now())
	}

	options := services.ChatOptions{
		Temperature:   cfg.Temperature,
		MaxTokens:     cfg.MaxTokens,
		ContextWindow: cfg.ContextWindow,
		SystemPrompt:  promptFor,
	}
	if cfg.Stream {
		options.Stream = render
	}
	chatService := services.NewChatService(historyRepo, model, dispatcherService, prefs.TrustMode, options, logger)

	systemPrompt := promptFor(prefs.TrustMode)
	if err := chatService.LoadHistory(ctx, systemPrompt); err != nil {
		logger.Error("Failed to load history", zap.Error(err))
		return err
	}

	schedulerService.Start(ctx)
	defer schedulerService.Stop()
	defer chatService.Close()

	app := cli.NewCLI(chatService, preferencesService, schedulerService, console, render, cli.Options{
		Streamed:      cfg.Stream,
		ShowToolCalls: cfg.LogLevel == "debug",
	}, logger)
	return app.Run(ctx)
}

func newModel(cfg *config.Config, logger *zap.Logger) (interfaces.AIModelIntegration, error) {
	provider, ok := entities.LookupProvider(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	apiKey, err := cfg.ResolveAPIKey(provider)
	if err != nil && provider.Type != entities.ProviderOllama {
		logger.Error("No API key for provider", zap.String("provider", provider.Name), zap.Error(err))
		return nil, fmt.Errorf("no API key for %s: set %s or GAURIKA_API_KEY", provider.Name, provider.APIKeyName)
	}

	factory := integrations.NewAIModelFactory(cfg.ModelTimeout, cfg.Stream, logger)
	model, err := factory.CreateModelIntegration(provider, cfg.BaseURL, cfg.Model, apiKey)
	if err != nil {
		logger.Error("Failed to create model integration", zap.Error(err))
		return nil, err
	}
	return model, nil
}

// newSearcher builds the web search pipeline. The returned func releases the
// headless browser when one was started.
func newSearcher(ctx context.Context, cfg *config.Config, model interfaces.AIModelIntegration, logger *zap.Logger) (interfaces.Searcher, func(), error) {
	var summarizer interfaces.Summarizer
	if cfg.GeminiAPIKey != "" {
		gemini, err := integrations.NewGeminiSummarizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Error("Failed to create Gemini summarizer", zap.Error(err))
			return nil, nil, err
		}
		summarizer = gemini
	} else {
		logger.Info("GEMINI_API_KEY not set, summarizing search results with the chat model")
		summarizer = integrations.NewModelSummarizer(model, logger)
	}

	client := &http.Client{Timeout: cfg.FetchTimeout}
	links := tools.NewWebSearchClient(cfg.SearchAPIKey, cfg.SearchEngineID, client, logger)
	fetcher := tools.NewHTTPFetcher(client, logger)

	search := tools.NewSearchTool(links, fetcher, summarizer, tools.SearchOptions{
		MaxPages:     cfg.SearchMaxPages,
		Workers:      cfg.SearchWorkers,
		FetchTimeout: cfg.FetchTimeout,
	}, logger)

	if !cfg.RenderJS {
		return search, func() {}, nil
	}

	browser := tools.NewBrowserFetcher(true, logger)
	search.WithRenderer(browser)
	return search, func() {
		if err := browser.Close(); err != nil {
			logger.Warn("Failed to close browser", zap.Error(err))
		}
	}, nil
}
