package event

import (
	"time"

	"github.com/viant/remotely/internal/clock"
)

// Event types
const (
	TypeEntryAppended = "entryAppended"
	TypeBatchStarted  = "batchStarted"
	TypeBatchFinished = "batchFinished"
)

// Context identifies the batch and command an event relates to
type Context struct {
	Batch       string `json:"batch"`
	EventType   string `json:"eventType"`
	Index       int    `json:"index"`
	TimeTakenMs int    `json:"timeTakenMs,omitempty"`
}

// Event represents a batch run notification
type Event[T any] struct {
	Context   *Context       `json:"context"`
	CreatedAt time.Time      `json:"createdAt"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Data      T              `json:"data"`
}

// NewEvent creates an event
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]any),
		Data:      data,
	}
}
