package services

import (
	"sync"

	"github.com/drujensen/gaurika/internal/domain/entities"

	"github.com/pkoukk/tiktoken-go"
)

type tokenCounter func(msg *entities.Message) int

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

func estimateTokens(msg *entities.Message) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel("gpt-4")
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		// rough fallback when the BPE ranks cannot be loaded
		return len(msg.Content)/4 + argumentLength(msg)/4
	}

	tokens := len(encoding.Encode(msg.Content, nil, nil))
	for _, tc := range msg.ToolCalls {
		tokens += len(encoding.Encode(tc.Function.Arguments, nil, nil))
	}
	return tokens
}

func argumentLength(msg *entities.Message) int {
	n := 0
	for _, tc := range msg.ToolCalls {
		n += len(tc.Function.Arguments)
	}
	return n
}

// trimToWindow drops the oldest messages until the history fits in limit tokens.
// A leading system message is always kept and an assistant tool call is never
// separated from its tool responses. The input slice is not modified.
func trimToWindow(history []entities.Message, limit int, count tokenCounter) []entities.Message {
	if limit <= 0 || len(history) == 0 {
		return history
	}

	var system []entities.Message
	body := history
	if history[0].Role == entities.RoleSystem {
		system = history[:1]
		body = history[1:]
	}

	budget := limit
	for i := range system {
		budget -= count(&system[i])
	}

	// suffix[i] is the token count of body[i:]
	suffix := make([]int, len(body)+1)
	for i := len(body) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + count(&body[i])
	}
	if suffix[0] <= budget {
		return history
	}

	split := -1
	lastSafe := 0
	for k := 1; k < len(body); k++ {
		if !isSafeSplit(body, k) {
			continue
		}
		lastSafe = k
		if suffix[k] <= budget {
			split = k
			break
		}
	}
	if split < 0 {
		split = lastSafe
	}

	trimmed := make([]entities.Message, 0, len(system)+len(body)-split)
	trimmed = append(trimmed, system...)
	return append(trimmed, body[split:]...)
}

// isSafeSplit checks if splitting at 'split' avoids both orphaned responses and unfinished calls.
func isSafeSplit(messages []entities.Message, split int) bool {
	// Collect all tool call IDs before split
	toolCallIDsBefore := make(map[string]struct{})
	for i := 0; i < split; i++ {
		msg := messages[i]
		if msg.Role == entities.RoleAssistant && len(msg.ToolCalls) > 0 {
			for _, tc := range msg.ToolCalls {
				toolCallIDsBefore[tc.ID] = struct{}{}
			}
		}
	}

	// Check for orphaned responses: tool after split referencing call before split
	for i := split; i < len(messages); i++ {
		msg := messages[i]
		if msg.Role == entities.RoleTool {
			if _, ok := toolCallIDsBefore[msg.ToolCallID]; ok {
				return false
			}
		}
	}

	// A tool message at the split point would lead the trimmed history without its call.
	if split < len(messages) && messages[split].Role == entities.RoleTool {
		return false
	}

	return true
}
