package api

// Role identifies the author of a transcript message. The model backend
// accepts exactly two roles; everything else is normalized or dropped
// before a transcript is built.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// HistoryPart is one fragment of a multi-part history entry. Only text
// fragments are carried; anything else the client sends is ignored.
type HistoryPart struct {
	Text string `json:"text,omitempty"`
}

// HistoryEntry is a single client-supplied conversation history entry.
// The shape is deliberately loose: clients send whatever their UI kept,
// and the engine normalizes it into a canonical transcript.
type HistoryEntry struct {
	Role  string        `json:"role"`
	Text  string        `json:"text,omitempty"`
	Parts []HistoryPart `json:"parts,omitempty"`
}

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	// Message is the new user message for this exchange.
	Message string `json:"message"`

	// History is the prior conversation as the client recorded it.
	History []HistoryEntry `json:"history,omitempty"`

	// System is an optional system instruction for this request.
	System string `json:"system,omitempty"`

	// Stream selects the SSE event stream instead of a single JSON reply.
	Stream bool `json:"stream,omitempty"`
}

// Answer is the non-streaming success response body.
type Answer struct {
	Answer string `json:"answer"`
}
