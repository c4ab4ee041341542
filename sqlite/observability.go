package sqlite

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/benjamonnguyen/roster/sqlite"

type metrics struct {
	queryCount    metric.Int64Counter
	queryDuration metric.Float64Histogram
	queryErrors   metric.Int64Counter
}

// instrumentation is shared by the repos. The zero value records nothing.
type instrumentation struct {
	tracer  trace.Tracer
	metrics *metrics
}

type Option func(*instrumentation)

func WithTracer(tracer trace.Tracer) Option {
	return func(i *instrumentation) {
		i.tracer = tracer
	}
}

// WithDefaultTracer uses the global OpenTelemetry tracer provider.
func WithDefaultTracer() Option {
	return WithTracer(otel.Tracer(instrumentationName))
}

func WithMeter(meter metric.Meter) Option {
	return func(i *instrumentation) {
		i.metrics = newMetrics(meter)
	}
}

func newInstrumentation(opts []Option) instrumentation {
	var i instrumentation
	for _, opt := range opts {
		opt(&i)
	}
	return i
}

func newMetrics(meter metric.Meter) *metrics {
	queryCount, _ := meter.Int64Counter("roster.db.query.count",
		metric.WithDescription("Total number of SQL queries executed"),
		metric.WithUnit("{query}"),
	)
	queryDuration, _ := meter.Float64Histogram("roster.db.query.duration",
		metric.WithDescription("Query execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	queryErrors, _ := meter.Int64Counter("roster.db.query.errors",
		metric.WithDescription("Total number of query errors"),
		metric.WithUnit("{error}"),
	)
	return &metrics{
		queryCount:    queryCount,
		queryDuration: queryDuration,
		queryErrors:   queryErrors,
	}
}

// observe wraps one repo operation in a span and records its metrics.
// Call the returned func with the operation's error when it finishes.
func (i instrumentation) observe(ctx context.Context, operation, table string) (context.Context, func(error)) {
	start := time.Now()
	var span trace.Span
	if i.tracer != nil {
		ctx, span = i.tracer.Start(ctx, "sqlite."+operation,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("db.system", "sqlite"),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", table),
			),
		)
	}

	return ctx, func(err error) {
		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}

		if i.metrics == nil {
			return
		}
		attrs := metric.WithAttributes(
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", table),
		)
		i.metrics.queryCount.Add(ctx, 1, attrs)
		i.metrics.queryDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
		if err != nil {
			i.metrics.queryErrors.Add(ctx, 1, attrs)
		}
	}
}
