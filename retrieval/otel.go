package retrieval

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dotmd/dotmd/core"
)

// tracer and meter use the global otel providers, which default to no-ops
// until a caller of this module installs a real SDK. Retrieve stays on the
// hot path either way; instrumentation cost is a span/metric no-op call
// when nothing is configured.
var (
	tracer = otel.Tracer("github.com/dotmd/dotmd/retrieval")
	meter  = otel.Meter("github.com/dotmd/dotmd/retrieval")
)

var retrieveDuration, _ = meter.Float64Histogram(
	"dotmd.retrieval.duration_ms",
	metric.WithDescription("Retriever latency by engine"),
	metric.WithUnit("ms"),
)

// traced wraps a single engine's Retrieve call in a span and records its
// duration and candidate count, tagged by engine name.
func traced(ctx context.Context, engine string, fn func(context.Context) ([]core.ScoredChunk, error)) ([]core.ScoredChunk, error) {
	ctx, span := tracer.Start(ctx, "retrieval."+engine, trace.WithAttributes(attribute.String("engine", engine)))
	defer span.End()

	start := time.Now()
	results, err := fn(ctx)
	retrieveDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000, metric.WithAttributes(attribute.String("engine", engine)))
	span.SetAttributes(attribute.Int("candidates", len(results)))
	if err != nil {
		span.RecordError(err)
	}
	return results, err
}
