package entities

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

type ToolCallFunction struct {
	Name      string `json:"name" bson:"name"`
	Arguments string `json:"arguments" bson:"arguments"`
}

type ToolCall struct {
	ID       string           `json:"id" bson:"id"`
	Type     string           `json:"type" bson:"type"`
	Function ToolCallFunction `json:"function" bson:"function"`
}

// Message is stored in the same shape the chat completions API expects,
// so a persisted history can be replayed to the model unchanged.
type Message struct {
	Role       string     `json:"role" bson:"role"`
	Content    string     `json:"content" bson:"content"`
	Name       string     `json:"name,omitempty" bson:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty" bson:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty" bson:"tool_calls,omitempty"`
}

func NewMessage(role, content string) *Message {
	return &Message{
		Role:    role,
		Content: content,
	}
}

func NewToolMessage(toolCallID, toolName, content string) *Message {
	return &Message{
		Role:       RoleTool,
		Content:    content,
		Name:       toolName,
		ToolCallID: toolCallID,
	}
}

// HasToolCalls reports whether the assistant asked for tools in this message.
func (m *Message) HasToolCalls() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}

// EnsureSystem prepends a system message unless the history already starts with one.
func EnsureSystem(history []Message, prompt string) []Message {
	if len(history) > 0 && history[0].Role == RoleSystem {
		return history
	}
	return append([]Message{*NewMessage(RoleSystem, prompt)}, history...)
}
