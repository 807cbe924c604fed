package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AuditSourceTool      = "tool"
	AuditSourceScheduler = "scheduler"
)

// CommandResult holds the combined stdout/stderr of one shell run.
type CommandResult struct {
	Command  string        `json:"command"`
	ExitCode int           `json:"exit_code"`
	Output   string        `json:"output"`
	Duration time.Duration `json:"duration"`
	TimedOut bool          `json:"timed_out,omitempty"`
}

func (r *CommandResult) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// Text is what the model sees for this run.
func (r *CommandResult) Text() string {
	if r.Success() {
		return r.Output
	}
	return fmt.Sprintf("Command '%s' failed with error:\n%s", r.Command, r.Output)
}

type AuditEntry struct {
	ID        string    `json:"id" bson:"_id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Command   string    `json:"command" bson:"command"`
	Output    string    `json:"output" bson:"output"`
	Source    string    `json:"source" bson:"source"`
}

func NewAuditEntry(command, output, source string) *AuditEntry {
	return &AuditEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Command:   command,
		Output:    output,
		Source:    source,
	}
}

// Format renders the entry as a block of the plain-text command history.
func (e *AuditEntry) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Time: %s\n", e.Timestamp.Format("2006-01-02 15:04:05.000000"))
	fmt.Fprintf(&b, "Command: %s\n", e.Command)
	fmt.Fprintf(&b, "Output:\n%s\n", e.Output)
	b.WriteString(strings.Repeat("-", 50))
	b.WriteString("\n")
	return b.String()
}
