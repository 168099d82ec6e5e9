package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestObserver(t *testing.T) (*ToolObserver, *sdkmetric.ManualReader, *tracetest.InMemoryExporter) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	observer, err := NewToolObserver(mp.Meter("test"), tp.Tracer("test"))
	if err != nil {
		t.Fatalf("NewToolObserver() error = %v", err)
	}
	return observer, reader, exporter
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func TestToolObserver_RecordsMetricsAndSpan(t *testing.T) {
	observer, reader, exporter := newTestObserver(t)

	ctx, call := observer.Start(context.Background(), "bmlt_search", "call-1")
	call.Finish(ctx, OutcomeToolError, "upstream 503")

	rm := collectMetrics(t, reader)
	calls := findMetric(rm, "fam.tool.calls")
	if calls == nil {
		t.Fatal("fam.tool.calls metric not found")
	}
	sum, ok := calls.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("fam.tool.calls type = %T, want Sum[int64]", calls.Data)
	}
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
		t.Errorf("unexpected call datapoints: %+v", sum.DataPoints)
	}

	latency := findMetric(rm, "fam.tool.latency")
	if latency == nil {
		t.Fatal("fam.tool.latency metric not found")
	}
	if _, ok := latency.Data.(metricdata.Histogram[float64]); !ok {
		t.Fatalf("fam.tool.latency type = %T, want Histogram[float64]", latency.Data)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "tool.call" {
		t.Errorf("span name = %q", spans[0].Name)
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want Error", spans[0].Status.Code)
	}
}

func TestToolObserver_OKStatus(t *testing.T) {
	observer, _, exporter := newTestObserver(t)

	ctx, call := observer.Start(context.Background(), "bmlt_search", "call-2")
	call.Finish(ctx, OutcomeOK, "")

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Status.Code != codes.Ok {
		t.Fatalf("expected one OK span, got %+v", spans)
	}
}

func TestToolObserver_NilSafe(t *testing.T) {
	var observer *ToolObserver
	ctx, call := observer.Start(context.Background(), "bmlt_search", "call-3")
	if ctx == nil {
		t.Fatal("expected context to be returned")
	}
	call.Finish(ctx, OutcomeFault, "boom")
}

func TestNewGlobalToolObserver(t *testing.T) {
	observer, err := NewGlobalToolObserver()
	if err != nil {
		t.Fatalf("NewGlobalToolObserver() error = %v", err)
	}
	ctx, call := observer.Start(context.Background(), "bmlt_search", "call-4")
	call.Finish(ctx, OutcomeOK, "")
}
