package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"deliverycli/internal/config"
	"deliverycli/pkg/contracts"
)

const (
	ServiceName = "delivery-tracker"
	TracerName  = "deliverycli"
)

// OTelProviders holds the OpenTelemetry providers and the Prometheus
// registry their metrics are exported through.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Tracer         trace.Tracer
	Metrics        *PipelineMetrics
	Logger         *slog.Logger
}

// InitializeOTel sets up tracing (stdout or none) and metrics exported
// through a dedicated Prometheus registry.
func InitializeOTel(cfg config.TelemetryConfig, logger *slog.Logger) (*OTelProviders, error) {
	ctx := context.Background()

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
		attribute.String("service.instance.id", generateInstanceID()),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Registry: prometheus.NewRegistry(),
		Tracer:   tracenoop.NewTracerProvider().Tracer(TracerName),
		Logger:   logger,
	}

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		providers.TracerProvider = tp
		providers.Tracer = tp.Tracer(TracerName)
		otel.SetTracerProvider(tp)
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	exporter, err := otelprom.New(otelprom.WithRegisterer(providers.Registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	providers.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(providers.MeterProvider)

	providers.Metrics, err = NewPipelineMetrics(providers.MeterProvider.Meter(TracerName))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger.DebugContext(ctx, "OpenTelemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter))

	return providers, nil
}

// MetricsHandler serves the registry in the Prometheus exposition format.
func (p *OTelProviders) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the current metrics for the node_exporter textfile
// collector. An empty path is a no-op.
func (p *OTelProviders) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Shutdown flushes pending spans and stops the providers.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// PipelineMetrics are the counters recorded by the fetch, parse and rank
// stages. A nil *PipelineMetrics records nothing.
type PipelineMetrics struct {
	MirrorRequests metric.Int64Counter
	FetchAttempts  metric.Int64Counter
	FetchDuration  metric.Float64Histogram
	RecordsParsed  metric.Int64Counter
	RankedEntries  metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	mirrorRequests, err := meter.Int64Counter(
		"delivery_mirror_requests",
		metric.WithDescription("Archive mirror requests by mirror host and outcome"),
	)
	if err != nil {
		return nil, err
	}

	fetchAttempts, err := meter.Int64Counter(
		"delivery_fetch_attempts",
		metric.WithDescription("Full mirror sequence attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	fetchDuration, err := meter.Float64Histogram(
		"delivery_fetch_duration_seconds",
		metric.WithDescription("Time to obtain one report including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	recordsParsed, err := meter.Int64Counter(
		"delivery_records_parsed",
		metric.WithDescription("Delivery records emitted by the report parser"),
	)
	if err != nil {
		return nil, err
	}

	rankedEntries, err := meter.Int64Counter(
		"delivery_ranked_entries",
		metric.WithDescription("Entries written to ranking reports"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		MirrorRequests: mirrorRequests,
		FetchAttempts:  fetchAttempts,
		FetchDuration:  fetchDuration,
		RecordsParsed:  recordsParsed,
		RankedEntries:  rankedEntries,
	}, nil
}

// NoopPipelineMetrics returns instruments that discard every measurement.
func NoopPipelineMetrics() *PipelineMetrics {
	m, _ := NewPipelineMetrics(noop.NewMeterProvider().Meter(TracerName))
	return m
}

func (m *PipelineMetrics) RecordMirror(ctx context.Context, mirror, outcome string) {
	if m == nil {
		return
	}
	m.MirrorRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mirror", mirror),
		attribute.String("outcome", outcome),
	))
}

func (m *PipelineMetrics) RecordFetchAttempt(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.FetchAttempts.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

func (m *PipelineMetrics) RecordFetchDuration(ctx context.Context, d time.Duration, success bool) {
	if m == nil {
		return
	}
	m.FetchDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.Bool("success", success)))
}

func (m *PipelineMetrics) RecordParsed(ctx context.Context, layout string, n int) {
	if m == nil {
		return
	}
	m.RecordsParsed.Add(ctx, int64(n), metric.WithAttributes(attribute.String("layout", layout)))
}

func (m *PipelineMetrics) RecordRanked(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.RankedEntries.Add(ctx, int64(n))
}

// StartSpan starts a span on the global tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError marks span as failed with err.
func RecordError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}
