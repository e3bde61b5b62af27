package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/modmeta/observe/exporters"
)

// Config configures the Observer.
type Config struct {
	// ServiceName identifies the service in exported telemetry.
	// Default: "modmeta"
	ServiceName string

	// Version is the service version attached to telemetry resources.
	Version string

	// TraceExporter selects the span exporter: stdout|otlp|none.
	// Empty disables tracing.
	TraceExporter string

	// MetricExporter selects the metric reader: stdout|otlp|prometheus|none.
	// Empty disables metrics.
	MetricExporter string

	// LogLevel sets the logger threshold: debug|info|warn|error.
	// Empty disables logging.
	LogLevel string
}

// Observer bundles the engine's telemetry primitives.
type Observer struct {
	tracer  trace.Tracer
	metrics *Metrics
	logger  Logger

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// NewObserver wires tracing, metrics, and logging from the config. Every
// subsystem left unconfigured is replaced with an inert implementation.
func NewObserver(ctx context.Context, cfg Config) (*Observer, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "modmeta"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("observe: create resource: %w", err)
	}

	obs := &Observer{}

	if cfg.TraceExporter != "" {
		exp, err := exporters.NewSpanExporter(ctx, cfg.TraceExporter)
		if err != nil {
			return nil, fmt.Errorf("observe: setup tracing: %w", err)
		}
		opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
		if exp != nil {
			opts = append(opts, sdktrace.WithBatcher(exp))
		}
		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		obs.tracerProvider = tp
		obs.tracer = tp.Tracer(cfg.ServiceName)
	} else {
		obs.tracer = tracenoop.NewTracerProvider().Tracer("noop")
	}

	var meter metric.Meter
	if cfg.MetricExporter != "" {
		reader, err := exporters.NewMetricReader(ctx, cfg.MetricExporter)
		if err != nil {
			return nil, fmt.Errorf("observe: setup metrics: %w", err)
		}
		opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
		if reader != nil {
			opts = append(opts, sdkmetric.WithReader(reader))
		}
		mp := sdkmetric.NewMeterProvider(opts...)
		otel.SetMeterProvider(mp)
		obs.meterProvider = mp
		meter = mp.Meter(cfg.ServiceName)
	} else {
		meter = metricnoop.NewMeterProvider().Meter("noop")
	}
	metrics, err := NewMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("observe: create instruments: %w", err)
	}
	obs.metrics = metrics

	if cfg.LogLevel != "" {
		obs.logger = NewLogger(cfg.LogLevel)
	} else {
		obs.logger = Nop()
	}

	return obs, nil
}

// Tracer returns the configured tracer.
func (o *Observer) Tracer() trace.Tracer {
	return o.tracer
}

// Metrics returns the engine instruments.
func (o *Observer) Metrics() *Metrics {
	return o.metrics
}

// Logger returns the configured logger.
func (o *Observer) Logger() Logger {
	return o.logger
}

// Shutdown flushes and stops all telemetry providers. Idempotent.
func (o *Observer) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		o.tracerProvider = nil
	}
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		o.meterProvider = nil
	}
	return errors.Join(errs...)
}
