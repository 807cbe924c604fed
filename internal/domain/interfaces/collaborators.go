package interfaces

import (
	"context"
	"time"
)

// ShellRunner runs a command line through the system shell.
type ShellRunner interface {
	Run(ctx context.Context, command string, timeout time.Duration) (output string, exitCode int, err error)
}

// Prompter asks the user questions on the terminal.
type Prompter interface {
	// Confirm asks a yes/no question. Anything but an explicit yes is a no.
	Confirm(ctx context.Context, question string) (bool, error)
	// Ask reads one line of free-form input.
	Ask(ctx context.Context, question string) (string, error)
}

// Searcher answers a query from the web. Empty results are reported as text, not errors.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Summarizer condenses scraped page text into an answer for query.
type Summarizer interface {
	Summarize(ctx context.Context, query, text string) (string, error)
}

// Voice is an optional speech front end for the REPL.
type Voice interface {
	Listen(ctx context.Context) (string, bool)
	Speak(ctx context.Context, text string) error
}
