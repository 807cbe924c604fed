package errs

import "fmt"

// CommandFailure describes a shell command that exited unsuccessfully.
// It never escapes the executor; its text becomes the tool output.
type CommandFailure struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *CommandFailure) Error() string {
	return fmt.Sprintf("Command '%s' failed with error:\n%s", e.Command, e.Output)
}

var _ error = &CommandFailure{}
