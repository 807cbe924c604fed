package events

import (
	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/kelindar/event"
)

// Event types
const (
	ToolCallEventType uint32 = 1
	JobRunEventType   uint32 = 2
)

// ToolCallEventData wraps the ToolCallEvent for publishing
type ToolCallEventData struct {
	Event *entities.ToolCallEvent
}

// JobRunEventData wraps a scheduled job fire
type JobRunEventData struct {
	Event *entities.JobRunEvent
}

// Type implements the Event interface
func (t ToolCallEventData) Type() uint32 {
	return ToolCallEventType
}

// Type implements the Event interface
func (j JobRunEventData) Type() uint32 {
	return JobRunEventType
}

// PublishToolCallEvent publishes a tool call event
func PublishToolCallEvent(toolEvent *entities.ToolCallEvent) {
	event.Emit(ToolCallEventData{Event: toolEvent})
}

// SubscribeToToolCallEvents subscribes to tool call events
func SubscribeToToolCallEvents(handler func(data ToolCallEventData)) func() {
	return event.On(handler)
}

// PublishJobRunEvent publishes the outcome of a scheduled job
func PublishJobRunEvent(jobEvent *entities.JobRunEvent) {
	event.Emit(JobRunEventData{Event: jobEvent})
}

// SubscribeToJobRunEvents subscribes to scheduled job outcomes
func SubscribeToJobRunEvents(handler func(data JobRunEventData)) func() {
	return event.On(handler)
}
