package mcp

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fam-mcp/internal/common"
	"github.com/bobmcallan/fam-mcp/internal/telemetry"
	"github.com/bobmcallan/fam-mcp/internal/tools"
)

// drainPollInterval is how often Wait checks the in-flight count.
const drainPollInterval = 10 * time.Millisecond

// Dispatcher is the boundary between the MCP transport and tool callbacks.
// It validates arguments, invokes the tool and converts every failure into a
// diagnostic result so the server never sees a tool-level fault.
type Dispatcher struct {
	logger   *common.Logger
	observer *telemetry.ToolObserver
	inFlight atomic.Int64
}

// NewDispatcher creates a dispatcher. observer may be nil.
func NewDispatcher(logger *common.Logger, observer *telemetry.ToolObserver) *Dispatcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Dispatcher{logger: logger, observer: observer}
}

// Handler adapts t to an mcp-go tool handler.
func (d *Dispatcher) Handler(t tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toCallToolResult(d.Dispatch(ctx, t, r.GetArguments())), nil
	}
}

// Dispatch runs one call of t with raw arguments. It always returns a response.
func (d *Dispatcher) Dispatch(ctx context.Context, t tools.Tool, raw map[string]any) *tools.Response {
	d.inFlight.Add(1)
	defer d.inFlight.Add(-1)

	name := t.Name()
	callID := uuid.New().String()
	logger := d.logger.WithCorrelationId(callID)
	ctx = tools.WithCallContext(ctx, tools.CallContext{CallID: callID, ToolName: name, Client: clientFromContext(ctx)})

	ctx, observed := d.observer.Start(ctx, name, callID)
	start := time.Now()

	args, err := tools.ValidateArgs(t.Schema(), raw)
	if err != nil {
		logger.Warn().Str("tool", name).Str("error", err.Error()).Msg("tool arguments rejected")
		observed.Finish(ctx, telemetry.OutcomeInvalidArgument, err.Error())
		return tools.ErrorResponse(fmt.Sprintf("Invalid arguments for tool %s: %s", name, err))
	}

	logger.Debug().Str("tool", name).Str("client", clientFromContext(ctx)).Msg("tool call started")

	resp, err := invoke(ctx, t, args)
	duration := time.Since(start)
	if err != nil {
		event := logger.Error().Str("tool", name).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error())
		var perr *PanicError
		if errors.As(err, &perr) {
			event = event.Str("stack", string(perr.Stack))
		}
		event.Msg("tool execution failed")
		observed.Finish(ctx, telemetry.OutcomeFault, err.Error())
		return tools.ErrorResponse(fmt.Sprintf("Error executing tool %s: %s", name, err))
	}

	outcome := telemetry.OutcomeOK
	if resp.IsError {
		outcome = telemetry.OutcomeToolError
	}
	logger.Info().Str("tool", name).Int64("duration_ms", duration.Milliseconds()).Bool("is_error", resp.IsError).Msg("tool call complete")
	observed.Finish(ctx, outcome, resp.Text())
	return resp
}

// invoke calls the tool, turning a panic or a nil response into an error.
func invoke(ctx context.Context, t tools.Tool, args tools.Args) (resp *tools.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	resp, err = t.Call(ctx, args)
	if err == nil && resp == nil {
		err = errors.New("tool returned no response")
	}
	return resp, err
}

// PanicError wraps a value recovered from a panicking tool.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// InFlight returns the number of calls currently executing.
func (d *Dispatcher) InFlight() int64 {
	return d.inFlight.Load()
}

// Wait blocks until no calls are in flight or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for d.inFlight.Load() > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%d tool call(s) still in flight: %w", d.inFlight.Load(), ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

func toCallToolResult(resp *tools.Response) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(resp.Content))
	for _, c := range resp.Content {
		content = append(content, mcp.NewTextContent(c.Text))
	}
	return &mcp.CallToolResult{Content: content, IsError: resp.IsError}
}
