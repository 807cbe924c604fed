package errs

import "fmt"

// UnknownToolError is returned when the model asks for a tool that is not declared.
type UnknownToolError struct {
	Name       string
	ToolCallID string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

var _ error = &UnknownToolError{}
