package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmkoo/daedap/pkg/debug"
)

var (
	toolExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daedap_tool_executions_total",
			Help: "Tool executions by name and outcome",
		},
		[]string{"tool_name", "status"},
	)

	toolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "daedap_tool_duration_seconds",
			Help:    "Tool execution duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)
)

func init() {
	prometheus.MustRegister(toolExecutions, toolDuration)
}

// entry pairs a definition with its schema resolved once at construction.
type entry struct {
	def      Definition
	resolved *jsonschema.Resolved
}

// Registry is the closed tool lookup table. It is built once at startup
// and read-only afterwards, so it is safe to share across requests.
type Registry struct {
	order  []string
	byName map[string]entry
}

// NewRegistry builds a registry from an explicit list of definitions.
// Duplicate names and unresolvable schemas are construction errors.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{byName: make(map[string]entry, len(defs))}

	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("tools: definition with empty name")
		}
		if def.Handler == nil {
			return nil, fmt.Errorf("tools: %s has no handler", def.Name)
		}
		if _, dup := r.byName[def.Name]; dup {
			return nil, fmt.Errorf("tools: duplicate tool name %q", def.Name)
		}

		var resolved *jsonschema.Resolved
		if def.Parameters != nil {
			rs, err := def.Parameters.Resolve(nil)
			if err != nil {
				return nil, fmt.Errorf("tools: resolving schema for %s: %w", def.Name, err)
			}
			resolved = rs
		}

		r.byName[def.Name] = entry{def: def, resolved: resolved}
		r.order = append(r.order, def.Name)
	}

	return r, nil
}

// Definitions returns the declared tools in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.byName[name].def)
	}
	return defs
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Execute dispatches one call and returns the wrapped result object that
// is re-injected into the conversation. Failures of any kind are captured
// as error-shaped results; Execute never aborts the caller's turn.
func (r *Registry) Execute(ctx context.Context, call Call) (result map[string]any) {
	ent, ok := r.byName[call.Name]
	if !ok {
		toolExecutions.WithLabelValues(call.Name, "unknown").Inc()
		return map[string]any{"error": fmt.Sprintf("Unknown function: %s", call.Name)}
	}

	start := time.Now()
	status := "success"
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("tool handler panicked", "tool", call.Name, "panic", rec)
			result = ErrorResult(fmt.Errorf("internal error in tool %s", call.Name))
			status = "panic"
		}
		toolExecutions.WithLabelValues(call.Name, status).Inc()
		toolDuration.WithLabelValues(call.Name).Observe(time.Since(start).Seconds())
	}()

	args, err := DecodeArgs(call.Args)
	if err != nil {
		status = "bad_args"
		return ErrorResult(err)
	}

	if ent.resolved != nil {
		if err := ent.resolved.Validate(args); err != nil {
			status = "bad_args"
			return ErrorResult(fmt.Errorf("invalid arguments for %s: %w", call.Name, err))
		}
	}

	debug.Log("tools", "executing tool", "tool", call.Name)
	out, err := ent.def.Handler(ctx, args)
	if err != nil {
		slog.Warn("tool execution failed", "tool", call.Name, "error", err)
		status = "error"
		return ErrorResult(err)
	}

	return WrapResult(out)
}
