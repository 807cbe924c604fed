package errs

import "fmt"

// DuplicateJobError is returned when a scheduled job name is already registered.
type DuplicateJobError struct {
	Name string
}

func (e *DuplicateJobError) Error() string {
	return fmt.Sprintf("a scheduled task named '%s' already exists", e.Name)
}

// UnknownJobError is returned when removing a job that was never scheduled.
type UnknownJobError struct {
	Name string
}

func (e *UnknownJobError) Error() string {
	return fmt.Sprintf("no task named '%s' found in the schedule", e.Name)
}

var (
	_ error = &DuplicateJobError{}
	_ error = &UnknownJobError{}
)
