package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testConfig() Config {
	return Config{
		ServiceName:    "order-service-test",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		SampleRate:     1.0,
	}
}

// initTelemetry initializes telemetry with noop exporters and returns a
// cleanup function that shuts everything down.
func initTelemetry(t *testing.T, tracing, metrics bool) (*Telemetry, func()) {
	t.Helper()

	cfg := testConfig()
	cfg.EnableTracing = tracing
	cfg.EnableMetrics = metrics

	tel, err := Initialize(context.Background(), cfg,
		WithTraceExporter(NewNoopTraceExporter()),
		WithMetricExporter(NewNoopMetricExporter()),
	)
	if err != nil {
		t.Fatalf("failed to initialize telemetry: %v", err)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			t.Errorf("shutdown failed: %v", err)
		}
	}

	return tel, cleanup
}

func setupTelemetryWithTracing(t *testing.T) (*Telemetry, func()) {
	t.Helper()
	return initTelemetry(t, true, false)
}

func setupTelemetryWithMetrics(t *testing.T) (*Telemetry, func()) {
	t.Helper()
	return initTelemetry(t, false, true)
}

func setupTelemetryWithBoth(t *testing.T) (*Telemetry, func()) {
	t.Helper()
	return initTelemetry(t, true, true)
}

// setupTracerProvider installs an in-memory exporter as the global tracer
// provider so tests can inspect recorded spans.
func setupTracerProvider(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	t.Helper()

	exp := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(trace.WithSyncer(exp))
	otel.SetTracerProvider(tp)

	cleanup := func() {
		otel.SetTracerProvider(nil)
	}

	return exp, cleanup
}
