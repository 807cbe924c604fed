package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/drujensen/gaurika/internal/domain/interfaces"
)

// Console owns standard input. A single reader goroutine feeds lines to
// whoever is waiting: the REPL, a trust confirmation or the preferences setup.
type Console struct {
	in    io.Reader
	out   io.Writer
	lines chan string
	once  sync.Once
	mu    sync.Mutex
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    in,
		out:   out,
		lines: make(chan string),
	}
}

func (c *Console) start() {
	c.once.Do(func() {
		go func() {
			defer close(c.lines)
			scanner := bufio.NewScanner(c.in)
			scanner.Buffer(make([]byte, 64*1024), 1024*1024)
			for scanner.Scan() {
				c.lines <- scanner.Text()
			}
		}()
	})
}

// ReadLine prints prompt and waits for the next line. It returns io.EOF once
// input is exhausted.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	c.start()
	if prompt != "" {
		c.mu.Lock()
		fmt.Fprint(c.out, prompt)
		c.mu.Unlock()
	}

	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := c.ReadLine(ctx, question+" (y/N): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *Console) Ask(ctx context.Context, question string) (string, error) {
	answer, err := c.ReadLine(ctx, question)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

var _ interfaces.Prompter = (*Console)(nil)
