// Package telemetry records tool-call spans and metrics with OpenTelemetry.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/bobmcallan/fam-mcp"

// Outcome classifies how a tool call ended.
type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeToolError       Outcome = "tool_error"
	OutcomeInvalidArgument Outcome = "invalid_arguments"
	OutcomeFault           Outcome = "fault"
)

// ToolObserver records tool-call signals. A nil *ToolObserver is valid and
// records nothing.
type ToolObserver struct {
	tracer trace.Tracer

	calls    metric.Int64Counter
	latency  metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

// NewToolObserver creates a tool observer bound to the provided meter/tracer.
func NewToolObserver(meter metric.Meter, tracer trace.Tracer) (*ToolObserver, error) {
	calls, err := meter.Int64Counter(
		"fam.tool.calls",
		metric.WithDescription("Number of tool calls"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"fam.tool.latency",
		metric.WithDescription("Tool call latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	inFlight, err := meter.Int64UpDownCounter(
		"fam.tool.in_flight",
		metric.WithDescription("Tool calls currently executing"),
	)
	if err != nil {
		return nil, err
	}

	return &ToolObserver{
		tracer:   tracer,
		calls:    calls,
		latency:  latency,
		inFlight: inFlight,
	}, nil
}

// NewGlobalToolObserver binds an observer to the global meter and tracer providers.
func NewGlobalToolObserver() (*ToolObserver, error) {
	return NewToolObserver(
		otel.GetMeterProvider().Meter(instrumentationName),
		otel.GetTracerProvider().Tracer(instrumentationName),
	)
}

// Call is one observed tool call. Finish must be called exactly once.
type Call struct {
	observer *ToolObserver
	span     trace.Span
	tool     string
	start    time.Time
}

// Start begins observing a call to tool. The returned context carries the span.
func (o *ToolObserver) Start(ctx context.Context, tool, callID string) (context.Context, *Call) {
	if o == nil {
		return ctx, nil
	}

	call := &Call{observer: o, tool: tool, start: time.Now()}
	if o.tracer != nil {
		ctx, call.span = o.tracer.Start(ctx, "tool.call", trace.WithAttributes(
			attribute.String("tool_name", tool),
			attribute.String("call_id", callID),
		))
	}
	o.inFlight.Add(ctx, 1, metric.WithAttributes(attribute.String("tool_name", tool)))
	return ctx, call
}

// Finish records the outcome of the call.
func (c *Call) Finish(ctx context.Context, outcome Outcome, detail string) {
	if c == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool_name", c.tool),
		attribute.String("outcome", string(outcome)),
	}
	options := metric.WithAttributes(attrs...)
	c.observer.calls.Add(ctx, 1, options)
	c.observer.latency.Record(ctx, time.Since(c.start).Seconds(), options)
	c.observer.inFlight.Add(ctx, -1, metric.WithAttributes(attribute.String("tool_name", c.tool)))

	if c.span == nil {
		return
	}
	c.span.SetAttributes(attribute.String("outcome", string(outcome)))
	if outcome == OutcomeOK {
		c.span.SetStatus(codes.Ok, "")
	} else {
		c.span.SetStatus(codes.Error, detail)
	}
	c.span.End()
}
