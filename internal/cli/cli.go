package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/events"
	"github.com/drujensen/gaurika/internal/domain/interfaces"
	"github.com/drujensen/gaurika/internal/domain/services"

	"go.uber.org/zap"
)

type Options struct {
	// Voice, when set, is tried before falling back to typed input.
	Voice interfaces.Voice
	// Streamed means replies were already written while they were generated.
	Streamed bool
	// ShowToolCalls prints a line for every tool the model invokes.
	ShowToolCalls bool
}

type CLI struct {
	chatService        services.ChatService
	preferencesService services.PreferencesService
	schedulerService   services.SchedulerService
	console            *Console
	render             *Renderer
	options            Options
	logger             *zap.Logger
}

func NewCLI(
	chatService services.ChatService,
	preferencesService services.PreferencesService,
	schedulerService services.SchedulerService,
	console *Console,
	render *Renderer,
	options Options,
	logger *zap.Logger,
) *CLI {
	return &CLI{
		chatService:        chatService,
		preferencesService: preferencesService,
		schedulerService:   schedulerService,
		console:            console,
		render:             render,
		options:            options,
		logger:             logger,
	}
}

// Run reads user input until an exit phrase, end of input or an interrupt
// while idle. An interrupt during a turn only cancels that turn.
func (c *CLI) Run(ctx context.Context) error {
	unsubscribeJobs := events.SubscribeToJobRunEvents(func(data events.JobRunEventData) {
		c.render.Job(data.Event)
	})
	defer unsubscribeJobs()

	if c.options.ShowToolCalls {
		unsubscribeTools := events.SubscribeToToolCallEvents(func(data events.ToolCallEventData) {
			c.render.ToolCall(data.Event)
		})
		defer unsubscribeTools()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	c.render.Info("Gaurika is ready (trust mode: %s). Type /help for commands, exit to quit.", c.chatService.TrustMode())

	for {
		text, err := c.next(ctx, sig)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				c.render.Info("Goodbye!")
				return nil
			}
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if services.IsExitPhrase(text) {
			c.render.Info("Goodbye!")
			return nil
		}

		if c.command(ctx, text) {
			continue
		}

		c.turn(ctx, sig, text)
	}
}

func (c *CLI) next(ctx context.Context, sig <-chan os.Signal) (string, error) {
	readCtx, cancel := interruptible(ctx, sig)
	defer cancel()

	if c.options.Voice != nil {
		if text, ok := c.options.Voice.Listen(readCtx); ok {
			c.render.Info("You said: %s", text)
			return text, nil
		}
	}
	return c.console.ReadLine(readCtx, "> ")
}

func (c *CLI) turn(ctx context.Context, sig <-chan os.Signal, text string) {
	turnCtx, cancel := interruptible(ctx, sig)
	reply, err := c.chatService.SendMessage(turnCtx, text)
	cancel()

	if reply != nil {
		content := stripThinking(reply.Content)
		if c.options.Streamed {
			c.render.Info("")
		} else {
			c.render.Assistant(content)
		}
		if c.options.Voice != nil {
			if err := c.options.Voice.Speak(ctx, content); err != nil {
				c.logger.Warn("Failed to speak reply", zap.Error(err))
			}
		}
	}

	if err != nil {
		var canceled *errs.CanceledError
		if errors.As(err, &canceled) {
			c.render.Info("Turn cancelled.")
		} else {
			c.logger.Error("Turn failed", zap.Error(err))
			c.render.Error(err)
		}
	}

	if reply != nil {
		c.render.Info("Time taken: %.2f seconds", c.chatService.LastTurnDuration().Seconds())
	}
}

// command handles REPL slash commands and reports whether text was one.
func (c *CLI) command(ctx context.Context, text string) bool {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "?", "/help":
		c.render.Info("Available commands:\n" +
			"/help         - Show this help message\n" +
			"/jobs         - List scheduled tasks\n" +
			"/trust [mode] - Show or change the trust mode (full, half, none)\n" +
			"exit          - Exit the application (also quit, bye)")
		return true

	case "/jobs":
		c.render.Jobs(c.schedulerService.List())
		return true

	case "/trust":
		if arg == "" {
			mode := c.chatService.TrustMode()
			c.render.Info("Trust mode is %s: %s", mode, mode.Description())
			return true
		}
		mode, err := entities.ParseTrustMode(arg)
		if err != nil {
			c.render.Error(err)
			return true
		}
		if _, err := c.preferencesService.UpdateTrustMode(ctx, mode); err != nil {
			c.logger.Error("Failed to save trust mode", zap.Error(err))
			c.render.Error(err)
			return true
		}
		c.chatService.SetTrustMode(mode)
		c.render.Info("Trust mode set to %s: %s", mode, mode.Description())
		return true
	}

	return false
}

// interruptible derives a context that is cancelled by the next interrupt.
func interruptible(ctx context.Context, sig <-chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-sig:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// stripThinking removes <think>...</think> sections some models emit.
func stripThinking(content string) string {
	for {
		start := strings.Index(content, "<think>")
		end := strings.Index(content, "</think>")
		if start == -1 || end == -1 || end < start {
			break
		}
		content = content[:start] + content[end+len("</think>"):]
	}
	return strings.TrimSpace(content)
}
