package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Handler executes one tool call. args has already been decoded and
// schema-validated. The returned value must be JSON-serializable; if it is
// not a non-array object it is wrapped before re-injection (see WrapResult).
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Definition declares one callable tool: its name as the model sees it, a
// description for the model's planning, the argument schema, and the
// handler that runs it.
type Definition struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Handler     Handler
}

// Call is a model-emitted request to invoke a named tool. Args is the raw
// payload from the model: an object or a JSON-encoded string.
type Call struct {
	Name string
	Args any
}

// DecodeArgs coerces a raw argument payload into a map. A string payload
// is expected to be JSON and is parsed; parse failure is an execution
// error, not a protocol error.
func DecodeArgs(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("parsing tool arguments: %w", err)
		}
		if m == nil {
			m = map[string]any{}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported tool argument payload of type %T", raw)
	}
}

// BindArgs decodes a validated argument map into a typed struct via a JSON
// round trip. Handlers use it to get the struct their schema was derived
// from.
func BindArgs(args map[string]any, out any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding tool arguments: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("binding tool arguments: %w", err)
	}
	return nil
}

// WrapResult enforces the re-injection invariant: the model API requires a
// non-array object per tool response, so object results pass through
// unchanged and scalars, arrays, and nil are wrapped as {"result": value}.
func WrapResult(v any) map[string]any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{"result": v}
}

// ErrorResult shapes a caught execution failure for re-injection.
func ErrorResult(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}
