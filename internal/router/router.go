// Package router dispatches named tool calls to validated, typed API
// operations and funnels every result through the response-size governor
// before it reaches the calling host.
//
// A call moves through a fixed pipeline: route the name to a registered
// tool, normalize the arguments against the tool's schema, invoke the
// handler, bound the result's size, and wrap it in the reply envelope.
// Failures exit the pipeline as one of three caller-visible kinds:
// MethodNotFound at routing, InvalidParams at validation, and
// InternalError anywhere after that. No call is retried and no state is
// shared between calls.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/hudulabs/hudumcp/internal/params"
	"github.com/hudulabs/hudumcp/internal/telemetry"
	"github.com/hudulabs/hudumcp/internal/truncate"
)

// Handler executes one tool operation with normalized arguments and
// returns the response data, including its human-readable summary field.
type Handler func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)

// Tool is one entry in the routing table.
type Tool struct {
	Name        string
	Description string
	Schema      params.Schema
	Handler     Handler
}

// Router maps tool names to handlers and runs the call pipeline.
type Router struct {
	tools   map[string]Tool
	order   []string
	metrics *telemetry.MetricsCollector
	logger  *slog.Logger
}

// New creates an empty Router. Both arguments may be nil; metrics become a
// no-op and logging falls back to slog.Default().
func New(metrics *telemetry.MetricsCollector, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		tools:   make(map[string]Tool),
		metrics: metrics,
		logger:  logger,
	}
}

// Register adds a tool to the routing table.
func (r *Router) Register(tool Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %q has no handler", tool.Name)
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %q is already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

// Tools returns all registered tools in registration order.
func (r *Router) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// ToolSpec describes one tool for listing surfaces.
type ToolSpec struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// Describe returns the advertised catalog of all registered tools, with
// each tool's argument schema rendered as JSON Schema.
func (r *Router) Describe() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		specs = append(specs, ToolSpec{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Schema.JSONSchema(),
		})
	}
	return specs
}

// Call is the single entry point for a tool invocation. On failure the
// returned error is always a *ToolError.
func (r *Router) Call(ctx context.Context, name string, args map[string]interface{}) (*Result, error) {
	start := time.Now()
	r.metrics.Increment(telemetry.MetricToolCalls)
	r.logger.Info("Processing tool call", "tool", name)

	tool, ok := r.tools[name]
	if !ok {
		r.metrics.Increment(telemetry.MetricErrorsMethodNotFound)
		r.metrics.Increment(telemetry.MetricToolCallsFail)
		r.logger.Warn("Unknown tool requested", "tool", name)
		return nil, &ToolError{
			Kind:    KindMethodNotFound,
			Message: fmt.Sprintf("unknown tool: %s", name),
		}
	}

	normalized, err := tool.Schema.Normalize(args)
	if err != nil {
		r.metrics.Increment(telemetry.MetricErrorsInvalidParams)
		r.metrics.Increment(telemetry.MetricToolCallsFail)
		r.logger.Warn("Tool call failed validation", "tool", name, "error", err)
		return nil, toToolError(name, err)
	}

	data, err := tool.Handler(ctx, normalized)
	if err != nil {
		r.metrics.Increment(telemetry.MetricErrorsInternal)
		r.metrics.Increment(telemetry.MetricToolCallsFail)
		r.logger.Error("Tool call failed", "tool", name, "error", err)
		return nil, toToolError(name, err)
	}

	tr := truncate.Truncate(data)
	if tr.Truncated {
		r.metrics.Increment(telemetry.MetricResponsesTruncated)
		r.logger.Warn("Tool response truncated",
			"tool", name,
			"original_size", tr.OriginalSize)
	}

	result, err := buildEnvelope(tr)
	if err != nil {
		r.metrics.Increment(telemetry.MetricErrorsInternal)
		r.metrics.Increment(telemetry.MetricToolCallsFail)
		return nil, toToolError(name, err)
	}

	r.metrics.Increment(telemetry.MetricToolCallsOK)
	r.metrics.RecordDuration(telemetry.MetricToolCallDuration, time.Since(start))
	r.logger.Debug("Tool call completed",
		"tool", name,
		"truncated", tr.Truncated,
		"duration", time.Since(start))
	return result, nil
}
