package entities

const (
	ToolRunCommand          = "run_command"
	ToolWebSearch           = "web_search"
	ToolScheduleTask        = "schedule_task"
	ToolRemoveScheduledTask = "remove_scheduled_task"
)

type Parameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// ToolDefinition is a capability declared to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Schema renders the definition as a chat completions "function" tool.
func (d ToolDefinition) Schema() map[string]any {
	required := make([]string, 0)
	properties := make(map[string]any)
	for _, param := range d.Parameters {
		properties[param.Name] = map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}

	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        d.Name,
			"description": d.Description,
			"parameters": map[string]any{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}

// DefaultTools lists the four tools the assistant may call.
func DefaultTools() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        ToolRunCommand,
			Description: "Execute a single Linux command on the user's machine on their behalf.",
			Parameters: []Parameter{
				{Name: "command", Type: "string", Description: "The Linux command to execute.", Required: true},
			},
		},
		{
			Name:        ToolWebSearch,
			Description: "Perform a web search and retrieve relevant content.",
			Parameters: []Parameter{
				{Name: "query", Type: "string", Description: "The search query to use.", Required: true},
			},
		},
		{
			Name:        ToolScheduleTask,
			Description: "Schedule a Linux command to run at regular intervals.",
			Parameters: []Parameter{
				{Name: "task_name", Type: "string", Description: "A unique name for the scheduled task.", Required: true},
				{Name: "command", Type: "string", Description: "The Linux command to be executed.", Required: true},
				{Name: "interval", Type: "integer", Description: "The interval in seconds between each execution of the task.", Required: true},
			},
		},
		{
			Name:        ToolRemoveScheduledTask,
			Description: "Remove a previously scheduled task.",
			Parameters: []Parameter{
				{Name: "task_name", Type: "string", Description: "The name of the task to be removed.", Required: true},
			},
		},
	}
}
