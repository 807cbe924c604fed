package entities

import (
	"encoding/json"
	"strings"

	"github.com/drujensen/gaurika/internal/domain/errs"

	"github.com/mitchellh/mapstructure"
)

// Invocation is a decoded, validated tool call.
type Invocation interface {
	ToolName() string
	validate() error
}

type RunCommand struct {
	Command string `json:"command"`
}

type WebSearch struct {
	Query string `json:"query"`
}

type ScheduleTask struct {
	Name     string `json:"task_name"`
	Command  string `json:"command"`
	Interval int    `json:"interval"`
}

type RemoveScheduledTask struct {
	Name string `json:"task_name"`
}

func (RunCommand) ToolName() string          { return ToolRunCommand }
func (WebSearch) ToolName() string           { return ToolWebSearch }
func (ScheduleTask) ToolName() string        { return ToolScheduleTask }
func (RemoveScheduledTask) ToolName() string { return ToolRemoveScheduledTask }

func (c *RunCommand) validate() error {
	if strings.TrimSpace(c.Command) == "" {
		return errs.ValidationErrorf("command is required")
	}
	return nil
}

func (c *WebSearch) validate() error {
	if strings.TrimSpace(c.Query) == "" {
		return errs.ValidationErrorf("query is required")
	}
	return nil
}

func (c *ScheduleTask) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errs.ValidationErrorf("task_name is required")
	}
	if strings.TrimSpace(c.Command) == "" {
		return errs.ValidationErrorf("command is required")
	}
	if c.Interval <= 0 {
		return errs.ValidationErrorf("interval must be a positive number of seconds, got %d", c.Interval)
	}
	return nil
}

func (c *RemoveScheduledTask) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errs.ValidationErrorf("task_name is required")
	}
	return nil
}

// DecodeInvocation turns a raw tool call into its typed form.
// Unknown names yield *errs.UnknownToolError, bad arguments *errs.ValidationError.
func DecodeInvocation(call ToolCall) (Invocation, error) {
	var target Invocation
	switch call.Function.Name {
	case ToolRunCommand:
		target = &RunCommand{}
	case ToolWebSearch:
		target = &WebSearch{}
	case ToolScheduleTask:
		target = &ScheduleTask{}
	case ToolRemoveScheduledTask:
		target = &RemoveScheduledTask{}
	default:
		return nil, &errs.UnknownToolError{Name: call.Function.Name, ToolCallID: call.ID}
	}

	raw := map[string]any{}
	if args := strings.TrimSpace(call.Function.Arguments); args != "" {
		if err := json.Unmarshal([]byte(args), &raw); err != nil {
			return nil, errs.ValidationErrorf("malformed arguments for %s: %v", call.Function.Name, err)
		}
	}

	// Models regularly send numbers as strings ("60"), so decode weakly.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return nil, errs.InternalErrorf("failed to build argument decoder: %v", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errs.ValidationErrorf("invalid arguments for %s: %v", call.Function.Name, err)
	}

	if err := target.validate(); err != nil {
		return nil, err
	}
	return target, nil
}
