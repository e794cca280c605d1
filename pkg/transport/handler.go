package transport

import (
	"context"

	"github.com/jmkoo/daedap/pkg/api"
)

// Asker handles the core ask operation. The implementation receives a
// request and writes the result (streaming events or a complete answer)
// to the EventWriter.
type Asker interface {
	Ask(ctx context.Context, req *api.AskRequest, w EventWriter) error
}

// AskerFunc is an adapter that allows using an ordinary function as an
// Asker.
type AskerFunc func(ctx context.Context, req *api.AskRequest, w EventWriter) error

// Ask calls f(ctx, req, w).
func (f AskerFunc) Ask(ctx context.Context, req *api.AskRequest, w EventWriter) error {
	return f(ctx, req, w)
}

// EventWriter abstracts streaming and non-streaming output for the
// handler. The transport layer creates an EventWriter for each request
// and provides it to the handler. The handler uses WriteEvent for
// streaming requests or WriteAnswer for non-streaming requests.
//
// WriteEvent and WriteAnswer are mutually exclusive on a single writer
// instance. Calling WriteEvent after WriteAnswer (or vice versa) returns
// an error, as does calling WriteEvent after a terminal event (done or
// error) has been sent.
type EventWriter interface {
	// WriteEvent sends a single streaming event. Returns an error if
	// called after a terminal event or after WriteAnswer.
	WriteEvent(ctx context.Context, event api.Event) error

	// WriteAnswer sends a complete non-streaming answer. Returns an
	// error if called after WriteEvent was called on this writer.
	WriteAnswer(ctx context.Context, answer *api.Answer) error

	// Flush ensures buffered data is sent to the client. Returns an
	// error if the client has disconnected.
	Flush() error
}
