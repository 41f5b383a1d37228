package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestStart(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("remotely", "test", exporter))
	// a second provider is ignored
	require.NoError(t, InitWithExporter("other", "test", tracetest.NewInMemoryExporter()))

	ctx, batch := Start(context.Background(), "batch", KindInternal, attribute.String("report.title", "Report - 1"))
	assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())

	_, command := Start(ctx, "EXECUTE", KindClient)
	command.Set(attribute.Int("command.index", 0))
	command.Event("upgrade.interrupted", attribute.String("error", "reset"))
	command.End(errors.New("unavailable"))
	batch.End(nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "EXECUTE", spans[0].Name)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	// RecordError adds an exception event
	assert.Len(t, spans[0].Events, 2)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)
	assert.Contains(t, spans[1].Attributes, attribute.String("report.title", "Report - 1"))
}

func TestSpan_Nil(t *testing.T) {
	var span *Span
	assert.Nil(t, span.Set(attribute.String("k", "v")))
	span.Event("ignored")
	span.End(nil)
}
