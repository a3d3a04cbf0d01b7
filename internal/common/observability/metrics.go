package observability

import (
	"context"
	"fmt"
	"os"
	"time"

	"nanomatch/internal/common/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Observability owns the OpenTelemetry meter and tracer providers of the worker manager.
// Metrics are exported through the default Prometheus registry served on /metrics; spans go
// to the exporter selected by the tracing config.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
}

// New sets up metrics and, when tracing is enabled, a batching span exporter.
// Both providers are installed as the otel globals.
func New(ctx context.Context, serviceName string, tcfg config.TracingConfig) (*Observability, error) {
	var exporter sdktrace.SpanExporter
	if tcfg.Enabled {
		var err error
		exporter, err = newSpanExporter(ctx, tcfg)
		if err != nil {
			return nil, err
		}
	}
	return newWithExporter(serviceName, tcfg.SampleRatio, exporter)
}

func newSpanExporter(ctx context.Context, tcfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	switch tcfg.Exporter {
	case config.TraceExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	case config.TraceExporterOTLP, "":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(tcfg.Endpoint)}
		if tcfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("otlp trace exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", tcfg.Exporter)
	}
}

// newWithExporter builds the providers. A nil exporter leaves tracing without a processor.
func newWithExporter(serviceName string, sampleRatio float64, exporter sdktrace.SpanExporter) (*Observability, error) {
	metricExporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(metricExporter))
	otel.SetMeterProvider(provider)

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	}
	if exporter != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporter))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(tracerProvider)

	meter := provider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	if err != nil {
		return nil, err
	}

	jobDuration, err := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider:  provider,
		tracerProvider: tracerProvider,
		jobCounter:     jobCounter,
		jobDuration:    jobDuration,
	}, nil
}

// RecordJob counts one finished job and its duration.
func (o *Observability) RecordJob(ctx context.Context, taskType, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	)
	o.jobCounter.Add(ctx, 1, attrs)
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// Shutdown flushes pending spans and stops both providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	if err := o.tracerProvider.Shutdown(ctx); err != nil {
		return err
	}
	return o.meterProvider.Shutdown(ctx)
}
