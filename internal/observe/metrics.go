// Package observe provides application-wide observability primitives for
// bloxcoach: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all bloxcoach metrics.
const meterName = "github.com/bloxcoach/bloxcoach"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// TurnDuration tracks end-to-end chat turn processing latency. Use with
	// attribute: attribute.String("intent", ...).
	TurnDuration metric.Float64Histogram

	// GenerationDuration tracks generative backend latency per turn.
	GenerationDuration metric.Float64Histogram

	// --- Counters ---

	// Turns counts processed chat turns. Use with attributes:
	//   attribute.String("intent", ...)
	Turns metric.Int64Counter

	// Retrievals counts knowledge-base retrievals. Use with attribute:
	//   attribute.String("outcome", "hit"|"miss")
	Retrievals metric.Int64Counter

	// Generations counts generative backend attempts. Use with attribute:
	//   attribute.String("outcome", "ok"|"error"|"timeout")
	Generations metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions reports the number of chat sessions with live state.
	// The value is pulled from the session store at collection time; wire it
	// with [Metrics.ObserveActiveSessions].
	ActiveSessions metric.Int64ObservableGauge

	// ChatConnections tracks the number of open websocket chat connections.
	ChatConnections metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("route", ...)
	HTTPRequestDuration metric.Float64Histogram

	// meter is retained so observable instruments can register callbacks
	// after construction.
	meter metric.Meter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Turns are
// usually sub-millisecond on the deterministic path and multi-second when the
// generative backend is involved.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{meter: m}

	// Histograms.
	if met.TurnDuration, err = m.Float64Histogram("bloxcoach.turn.duration",
		metric.WithDescription("End-to-end chat turn latency by intent."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.GenerationDuration, err = m.Float64Histogram("bloxcoach.generation.duration",
		metric.WithDescription("Generative backend latency per turn."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Turns, err = m.Int64Counter("bloxcoach.turns",
		metric.WithDescription("Total processed chat turns by intent."),
	); err != nil {
		return nil, err
	}
	if met.Retrievals, err = m.Int64Counter("bloxcoach.retrievals",
		metric.WithDescription("Total knowledge-base retrievals by outcome."),
	); err != nil {
		return nil, err
	}
	if met.Generations, err = m.Int64Counter("bloxcoach.generations",
		metric.WithDescription("Total generative backend attempts by outcome."),
	); err != nil {
		return nil, err
	}

	// Gauges.
	if met.ActiveSessions, err = m.Int64ObservableGauge("bloxcoach.active_sessions",
		metric.WithDescription("Number of chat sessions with live state."),
	); err != nil {
		return nil, err
	}
	if met.ChatConnections, err = m.Int64UpDownCounter("bloxcoach.chat_connections",
		metric.WithDescription("Number of open websocket chat connections."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("bloxcoach.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// ObserveActiveSessions registers count as the source of the active-sessions
// gauge, sampled at each collection. Wire it with the session store's Len
// during application assembly.
func (m *Metrics) ObserveActiveSessions(count func() int) error {
	_, err := m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(m.ActiveSessions, int64(count()))
		return nil
	}, m.ActiveSessions)
	return err
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// EngineRecorder adapts [Metrics] to the engine's metrics sink interface.
type EngineRecorder struct {
	M *Metrics
}

// RecordTurn records one processed turn and its latency.
func (r EngineRecorder) RecordTurn(intentLabel string, d time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("intent", intentLabel))
	r.M.Turns.Add(ctx, 1, attrs)
	r.M.TurnDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordRetrieval records one knowledge-base retrieval.
func (r EngineRecorder) RecordRetrieval(hits int) {
	outcome := "hit"
	if hits == 0 {
		outcome = "miss"
	}
	r.M.Retrievals.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordGeneration records one generative backend attempt and its latency.
func (r EngineRecorder) RecordGeneration(outcome string, d time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	r.M.Generations.Add(ctx, 1, attrs)
	r.M.GenerationDuration.Record(ctx, d.Seconds(), attrs)
}
