package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "visatrack"
	ServiceVersion = "1.0.0"
	meterName      = "visatrack"
)

// OTelProviders holds the OpenTelemetry providers and the Prometheus
// scrape handler backing /metrics.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Metrics        *Metrics
}

// InitializeOTel sets up tracing (stdout exporter, development use) and
// metrics (Prometheus exporter), and registers the global providers.
func InitializeOTel(logger *slog.Logger) (*OTelProviders, error) {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(metricExporter),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter(meterName, metric.WithInstrumentationVersion(ServiceVersion))
	metrics, err := NewMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	logger.Info("observability initialized",
		slog.String("trace_exporter", "stdout"),
		slog.String("metric_exporter", "prometheus"))

	return &OTelProviders{
		TracerProvider: tp,
		MeterProvider:  mp,
		Tracer:         tp.Tracer(meterName, trace.WithInstrumentationVersion(ServiceVersion)),
		Meter:          meter,
		PrometheusHTTP: promhttp.Handler(),
		Metrics:        metrics,
	}, nil
}

// Shutdown flushes and stops the providers.
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

// Metrics holds the application's instruments.
type Metrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	DocumentsFetched metric.Int64Counter
	ExtractDuration  metric.Float64Histogram
	RowsSkipped      metric.Int64Counter
	CacheHits        metric.Int64Counter
	CacheMisses      metric.Int64Counter
	BackfillsStarted metric.Int64Counter
	PeriodsExtracted metric.Int64Counter
}

// NewMetrics creates the application instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.DocumentsFetched, err = meter.Int64Counter(
		"bulletin_documents_fetched_total",
		metric.WithDescription("Bulletin documents fetched, by outcome"),
	); err != nil {
		return nil, err
	}
	if m.ExtractDuration, err = meter.Float64Histogram(
		"bulletin_extract_duration_seconds",
		metric.WithDescription("Fetch and extraction duration per document"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.RowsSkipped, err = meter.Int64Counter(
		"bulletin_rows_skipped_total",
		metric.WithDescription("Table rows dropped during normalization, by reason"),
	); err != nil {
		return nil, err
	}
	if m.CacheHits, err = meter.Int64Counter(
		"period_cache_hits_total",
		metric.WithDescription("Period cache hits"),
	); err != nil {
		return nil, err
	}
	if m.CacheMisses, err = meter.Int64Counter(
		"period_cache_misses_total",
		metric.WithDescription("Period cache misses"),
	); err != nil {
		return nil, err
	}
	if m.BackfillsStarted, err = meter.Int64Counter(
		"backfill_runs_total",
		metric.WithDescription("Backfill runs started"),
	); err != nil {
		return nil, err
	}
	if m.PeriodsExtracted, err = meter.Int64Counter(
		"backfill_periods_extracted_total",
		metric.WithDescription("Periods successfully extracted by backfill runs"),
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// CountDocumentFetch records a fetch attempt with its outcome
// ("ok", "not_published", "error").
func (m *Metrics) CountDocumentFetch(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.DocumentsFetched.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// CountSkippedRows records dropped rows by reason.
func (m *Metrics) CountSkippedRows(ctx context.Context, reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RowsSkipped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}
