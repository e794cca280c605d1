package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jmkoo/daedap/pkg/api"
	"github.com/jmkoo/daedap/pkg/transport"
)

// writerState tracks the state of an askResponseWriter.
type writerState int

const (
	writerIdle      writerState = iota // no writes yet
	writerStreaming                    // WriteEvent has been called at least once
	writerCompleted                    // terminal event sent or WriteAnswer called
)

// askResponseWriter implements transport.EventWriter for HTTP. It handles
// both streaming (SSE) and non-streaming (JSON) output on one response.
type askResponseWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController

	mu    sync.Mutex
	state writerState
}

var _ transport.EventWriter = (*askResponseWriter)(nil)

func newAskResponseWriter(w http.ResponseWriter) *askResponseWriter {
	return &askResponseWriter{
		w:  w,
		rc: http.NewResponseController(w),
	}
}

// WriteEvent sends a single SSE event, formatted as:
//
//	event: {type}\n
//	data: {json}\n
//	\n
//
// Each event is flushed immediately so tokens reach the client as they
// arrive. After a terminal event (done or error) the writer refuses
// further writes; the stream ends with exactly one terminal event.
func (s *askResponseWriter) WriteEvent(ctx context.Context, event api.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerCompleted {
		return errors.New("cannot write event: writer is completed")
	}

	// First event: set SSE headers.
	if s.state == writerIdle {
		s.w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		s.w.Header().Set("Cache-Control", "no-cache, no-transform")
		s.w.Header().Set("Connection", "keep-alive")
		s.state = writerStreaming
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	if event.Type.IsTerminal() {
		s.state = writerCompleted
	}
	return nil
}

// WriteAnswer sends the complete non-streaming JSON answer. This is
// mutually exclusive with WriteEvent.
func (s *askResponseWriter) WriteAnswer(ctx context.Context, answer *api.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerStreaming {
		return errors.New("cannot write answer: streaming has already started")
	}
	if s.state == writerCompleted {
		return errors.New("cannot write answer: writer is completed")
	}

	s.w.Header().Set("Content-Type", "application/json")
	s.state = writerCompleted

	if err := json.NewEncoder(s.w).Encode(answer); err != nil {
		return fmt.Errorf("failed to encode answer: %w", err)
	}
	return nil
}

// Flush ensures buffered data is sent to the client.
func (s *askResponseWriter) Flush() error {
	return s.rc.Flush()
}

// hasStartedStreaming returns true if at least one SSE event has been written.
func (s *askResponseWriter) hasStartedStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == writerStreaming {
		return true
	}
	return s.state == writerCompleted && s.w.Header().Get("Content-Type") == "text/event-stream; charset=utf-8"
}
