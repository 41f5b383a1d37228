package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/viant/remotely/service/event"
	"github.com/viant/remotely/service/report"
)

// eventRecord is one line of the events file
type eventRecord struct {
	Batch       string         `json:"batch"`
	Type        string         `json:"type"`
	Index       int            `json:"index"`
	TimeTakenMs int            `json:"timeTakenMs,omitempty"`
	Command     string         `json:"command,omitempty"`
	Status      string         `json:"status,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// eventSink logs batch events and optionally appends them as JSON lines to a file
type eventSink struct {
	logger  logr.Logger
	writer  io.Writer
	encoder *json.Encoder
}

func (s *eventSink) handle(e *event.Event[report.Entry]) error {
	switch e.Context.EventType {
	case event.TypeBatchStarted:
		s.logger.V(1).Info("batch started", "batch", e.Context.Batch, "commands", e.Metadata["commands"])
	case event.TypeBatchFinished:
		s.logger.V(1).Info("batch finished", "batch", e.Context.Batch, "executed", e.Metadata["executed"],
			"succeeded", e.Metadata["succeeded"], "elapsedMs", e.Context.TimeTakenMs)
	default:
		s.logger.V(1).Info("command finished", "batch", e.Context.Batch, "index", e.Context.Index,
			"command", e.Data.Command.String(), "status", e.Data.Status.String(), "elapsedMs", e.Context.TimeTakenMs)
	}
	if s.encoder == nil {
		return nil
	}
	record := &eventRecord{
		Batch:       e.Context.Batch,
		Type:        e.Context.EventType,
		Index:       e.Context.Index,
		TimeTakenMs: e.Context.TimeTakenMs,
		Metadata:    e.Metadata,
	}
	if e.Context.EventType == event.TypeEntryAppended {
		record.Command = e.Data.Command.String()
		record.Status = e.Data.Status.String()
	}
	if err := s.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write %v event: %w", e.Context.EventType, err)
	}
	return nil
}

// newEventSink creates a sink writing to writer, nil writer only logs
func newEventSink(logger logr.Logger, writer io.Writer) *eventSink {
	ret := &eventSink{logger: logger, writer: writer}
	if writer != nil {
		ret.encoder = json.NewEncoder(writer)
	}
	return ret
}

// openEventSink creates a sink appending to the file at path, empty path only logs
func openEventSink(logger logr.Logger, path string) (*eventSink, func() error, error) {
	if path == "" {
		return newEventSink(logger, nil), func() error { return nil }, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open events file %v: %w", path, err)
	}
	return newEventSink(logger, file), file.Close, nil
}
