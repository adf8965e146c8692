package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrExecutionID   = "dqs.execution.id"
	AttrSerialization = "dqs.serialization.name"
	AttrWireFormat    = "dqs.wire.format"
	AttrPlaceholders  = "dqs.placeholders"
	AttrOperations    = "dqs.operations"
	AttrResultCount   = "dqs.result.count"
	AttrCacheHit      = "dqs.cache.hit"
	AttrSQL           = "db.statement"

	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanDecode  = "dqs.decode"
	SpanReplay  = "dqs.replay"
	SpanFetch   = "dqs.fetch"
	SpanExecute = "dqs.execute"
)

// Event names.
const (
	EventCacheLookup = "cache.lookup"
	EventErrorRaised = "error.occurred"
)

// RecordError marks span as failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent(EventErrorRaised, trace.WithAttributes(
		attribute.String(AttrErrorMessage, err.Error()),
	))
}
