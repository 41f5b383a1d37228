package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/viant/remotely/internal/idgen"
	"github.com/viant/remotely/model"
	"github.com/viant/remotely/progress"
	"github.com/viant/remotely/service/event"
	"github.com/viant/remotely/service/remote"
	"github.com/viant/remotely/service/report"
	"github.com/viant/remotely/tracing"
)

// TitlePrefix prefixes every report title, followed by a unique identifier
const TitlePrefix = "Report - "

// publishTimeout bounds waiting for room in a full event queue
const publishTimeout = time.Second

// Runner executes batches against a remote service, one command at a time
type Runner struct {
	service              remote.Service
	logger               logr.Logger
	publisher            *event.Publisher[report.Entry]
	failOnNonZeroExit    bool
	failOnUpgradeFailure bool
}

// Run executes batch commands in order and returns the report. When a remote
// call cannot be made the batch stops: the report of the commands executed so
// far is returned together with a *TransportError.
func (r *Runner) Run(ctx context.Context, batch *model.Batch) (*report.Report, error) {
	if batch == nil {
		batch = model.NewBatch()
	}
	title := TitlePrefix + idgen.New()
	ret := report.New(title)
	size := batch.Len()

	ctx, span := tracing.Start(ctx, "batch", tracing.KindInternal,
		attribute.String("report.title", title), attribute.Int("batch.size", size))
	progress.UpdateCtx(ctx, progress.Delta{Total: size, Pending: size})
	r.logger.Info("running batch", "title", title, "commands", size)
	batchStarted := time.Now()
	r.publish(ctx, title, event.TypeBatchStarted, 0, report.Entry{}, 0, map[string]any{"commands": size})

	for i, command := range batch.Commands {
		progress.UpdateCtx(ctx, progress.Delta{Pending: -1, Running: 1})
		started := time.Now()
		status, err := r.runCommand(ctx, i, command)
		if err != nil {
			progress.UpdateCtx(ctx, progress.Delta{Running: -1, Failed: 1})
			err = &TransportError{Index: i, Command: command, Err: err}
			r.logger.Error(err, "batch aborted", "title", title, "executed", ret.Len())
			r.publishFinished(ctx, ret, time.Since(batchStarted), err)
			span.End(err)
			return ret, err
		}
		entry := report.Entry{Command: command, Status: status}
		ret.Append(entry)
		if model.IsSuccess(status) {
			progress.UpdateCtx(ctx, progress.Delta{Running: -1, Completed: 1})
		} else {
			progress.UpdateCtx(ctx, progress.Delta{Running: -1, Failed: 1})
		}
		r.publish(ctx, title, event.TypeEntryAppended, i, entry, time.Since(started), nil)
	}
	r.logger.Info("batch completed", "title", title, "succeeded", ret.Succeeded(), "commands", size)
	r.publishFinished(ctx, ret, time.Since(batchStarted), nil)
	span.End(nil)
	return ret, nil
}

func (r *Runner) runCommand(ctx context.Context, index int, command model.Command) (model.Status, error) {
	ctx, span := tracing.Start(ctx, command.Kind.String(), tracing.KindClient,
		attribute.String("command.kind", command.Kind.String()),
		attribute.String("command.text", command.String()),
		attribute.Int("command.index", index))
	r.logger.V(1).Info("dispatching command", "index", index, "command", command.String())

	var status model.Status
	var err error
	switch command.Kind {
	case model.KindInspect:
		status, err = r.inspect(ctx)
	case model.KindExecute:
		status, err = r.execute(ctx, command.Argument)
	case model.KindUpgrade:
		status, err = r.upgrade(ctx, span)
	default:
		err = fmt.Errorf("unsupported command kind: %v", command.Kind)
	}
	if err == nil {
		span.Set(attribute.String("command.status", status.String()))
	}
	span.End(err)
	return status, err
}

func (r *Runner) inspect(ctx context.Context) (model.Status, error) {
	info, err := r.service.Inspect(ctx)
	if err != nil {
		return nil, err
	}
	text := fmt.Sprintf("kernel version: %s\nsystem uptime: %s", info.KernelVersion, FormatUptime(info.SystemUptime))
	return model.NewSuccess(model.Text(text)), nil
}

func (r *Runner) execute(ctx context.Context, command string) (model.Status, error) {
	reply, err := r.service.Execute(ctx, command)
	if err != nil {
		return nil, err
	}
	if reply.Code != 0 {
		r.logger.V(1).Info("command exited with non-zero code", "command", command, "code", reply.Code)
		if r.failOnNonZeroExit {
			return model.Failure{}, nil
		}
	}
	return model.NewSuccess(model.Text(reply.Stdout)), nil
}

// upgrade collects progress messages; an error inside the stream ends it without failing the batch
// unless the caller's context is done.
func (r *Runner) upgrade(ctx context.Context, span *tracing.Span) (model.Status, error) {
	stream, err := r.service.Upgrade(ctx)
	if err != nil {
		return nil, err
	}
	var last *remote.Progress
	builder := strings.Builder{}
	for {
		message, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			r.logger.Error(err, "upgrade stream interrupted")
			span.Event("upgrade.interrupted", attribute.String("error", err.Error()))
			break
		}
		last = message
		fmt.Fprintf(&builder, "Upgrade progress: %v, %d%%\n", message.Status, message.Position)
	}
	if r.failOnUpgradeFailure && last != nil && last.Status == remote.ProgressFailure {
		return model.Failure{}, nil
	}
	return model.NewSuccess(model.Text(builder.String())), nil
}

// publish sends a batch event; it never fails the batch
func (r *Runner) publish(ctx context.Context, title, eventType string, index int, entry report.Entry, elapsed time.Duration, metadata map[string]any) {
	if r.publisher == nil {
		return
	}
	anEvent := event.NewEvent(&event.Context{
		Batch:       title,
		EventType:   eventType,
		Index:       index,
		TimeTakenMs: int(elapsed.Milliseconds()),
	}, entry)
	for k, v := range metadata {
		anEvent.Metadata[k] = v
	}
	// a cancelled batch still reports how it ended
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := r.publisher.Publish(ctx, anEvent); err != nil {
		r.logger.Error(err, "failed to publish batch event", "title", title, "type", eventType, "index", index)
	}
}

func (r *Runner) publishFinished(ctx context.Context, aReport *report.Report, elapsed time.Duration, err error) {
	metadata := map[string]any{"executed": aReport.Len(), "succeeded": aReport.Succeeded()}
	if err != nil {
		metadata["error"] = err.Error()
	}
	r.publish(ctx, aReport.Title(), event.TypeBatchFinished, aReport.Len(), report.Entry{}, elapsed, metadata)
}

// New creates a runner for service
func New(service remote.Service, options ...Option) *Runner {
	ret := &Runner{service: service, logger: logr.Discard()}
	for _, option := range options {
		option(ret)
	}
	return ret
}
