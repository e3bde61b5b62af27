package observe

import (
	"context"
	"testing"
)

func TestNewObserver_Defaults(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	if obs.Tracer() == nil {
		t.Error("expected a tracer even when tracing is disabled")
	}
	if obs.Metrics() == nil {
		t.Error("expected instruments even when metrics are disabled")
	}
	if obs.Logger() == nil {
		t.Error("expected a logger even when logging is disabled")
	}

	// Disabled instruments must still accept records.
	obs.Metrics().RecordCacheHit(context.Background(), "mr-icon")
}

func TestNewObserver_NoneExporters(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName:    "modmeta-test",
		TraceExporter:  "none",
		MetricExporter: "none",
		LogLevel:       "error",
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	_, span := obs.Tracer().Start(context.Background(), "resolve")
	span.End()

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	// Shutdown is idempotent.
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}

func TestNewObserver_UnknownExporterFails(t *testing.T) {
	if _, err := NewObserver(context.Background(), Config{TraceExporter: "bogus"}); err == nil {
		t.Error("unknown trace exporter should fail construction")
	}
	if _, err := NewObserver(context.Background(), Config{MetricExporter: "bogus"}); err == nil {
		t.Error("unknown metric exporter should fail construction")
	}
}
