package api

// EventType identifies the type of a streaming event. The type doubles as
// the SSE event name on the wire.
type EventType string

const (
	// EventPhase marks the start of one model round.
	EventPhase EventType = "phase"

	// EventToken carries one incremental text fragment.
	EventToken EventType = "token"

	// EventToolCall announces the tool calls detected in a round.
	EventToolCall EventType = "tool_call"

	// EventToolResult carries the wrapped result of one executed tool.
	EventToolResult EventType = "tool_result"

	// EventDone carries the final answer. Terminal.
	EventDone EventType = "done"

	// EventError carries a structured failure. Terminal.
	EventError EventType = "error"
)

// IsTerminal reports whether an event type ends the stream. The framer
// closes the channel exactly once, after the first terminal event.
func (t EventType) IsTerminal() bool {
	return t == EventDone || t == EventError
}

// Event is one framed unit of Turn Engine progress. Data is serialized as
// the SSE data payload for Type.
type Event struct {
	Type EventType
	Data any
}

// PhaseData is the payload of a "phase" event.
type PhaseData struct {
	Type string `json:"type"`
	Turn int    `json:"turn"`
}

// TokenData is the payload of a "token" event.
type TokenData struct {
	Text string `json:"text"`
}

// ToolCallRef names one model-requested tool invocation. Args is the
// model-emitted argument payload: usually an object, occasionally a JSON
// string, decoded at the dispatch boundary rather than here.
type ToolCallRef struct {
	Name string `json:"name"`
	Args any    `json:"args,omitempty"`
}

// ToolCallData is the payload of a "tool_call" event.
type ToolCallData struct {
	Calls []ToolCallRef `json:"calls"`
}

// ToolResultData is the payload of a "tool_result" event. Response is
// always a non-array object (see tools.WrapResult).
type ToolResultData struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// DoneData is the payload of a "done" event.
type DoneData struct {
	Text string `json:"text"`
}
