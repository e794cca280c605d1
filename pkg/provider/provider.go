package provider

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/jmkoo/daedap/pkg/api"
)

// Provider abstracts an LLM inference backend capable of tool calling.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini").
	Name() string

	// Model returns the backend model identifier used for requests.
	Model() string

	// Generate performs one non-streaming model round.
	Generate(ctx context.Context, req *Request) (*Reply, error)

	// Stream performs one streaming model round. The returned channel
	// receives zero or more text chunks followed by exactly one final
	// chunk carrying either the aggregated Reply or an error, then closes.
	Stream(ctx context.Context, req *Request) (<-chan Chunk, error)

	// Close releases provider resources.
	Close() error
}

// Request is the backend-facing request for one model round. Contents is
// the full transcript so far: the provider is stateless and the engine owns
// conversation state.
type Request struct {
	// System is the system instruction, empty for none.
	System string

	// Contents is the ordered transcript, alternating user/model roles.
	Contents []Content

	// Tools declares the callable functions for this round.
	Tools []ToolDeclaration
}

// Content is one transcript entry.
type Content struct {
	Role  api.Role
	Parts []Part
}

// Part is one fragment of a Content. Exactly one field is set.
type Part struct {
	Text             string
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

// FunctionCall is a model-emitted request to invoke a named tool. Args is
// the raw argument payload as the backend produced it: an object
// (map[string]any) or, from some backends, a JSON-encoded string.
type FunctionCall struct {
	Name string
	Args any
}

// FunctionResponse re-injects one tool result into the conversation.
// Response must be a non-array object per the backend's tool protocol.
type FunctionResponse struct {
	Name     string
	Response map[string]any
}

// ToolDeclaration describes one callable function to the model.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// Reply is the aggregated result of one model round.
type Reply struct {
	// Text is the concatenated text output of the round.
	Text string

	// Calls holds the tool-call requests found in the round, in emission
	// order. Empty means the round produced a final answer.
	Calls []FunctionCall
}

// Chunk is one element of a streaming round. Text chunks carry incremental
// output; the final chunk carries Reply or Err.
type Chunk struct {
	// Text is an incremental text fragment, empty on the final chunk.
	Text string

	// Reply is set on the final chunk of a successful round.
	Reply *Reply

	// Err is set on the final chunk when the round failed.
	Err error
}

// NewTextContent builds a single-part text Content.
func NewTextContent(role api.Role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}

// NewFunctionResponseContent builds the user-role Content that feeds one
// tool result back to the model.
func NewFunctionResponseContent(name string, response map[string]any) Content {
	return Content{
		Role: api.RoleUser,
		Parts: []Part{{
			FunctionResponse: &FunctionResponse{Name: name, Response: response},
		}},
	}
}
