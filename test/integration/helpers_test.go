// Package integration tests the full server stack over real TCP: HTTP
// transport, engine loop, and the builtin clock tools, backed by a
// scripted model provider.
package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jmkoo/daedap/pkg/api"
	"github.com/jmkoo/daedap/pkg/engine"
	"github.com/jmkoo/daedap/pkg/provider"
	"github.com/jmkoo/daedap/pkg/tools"
	"github.com/jmkoo/daedap/pkg/tools/builtins/clock"
	transporthttp "github.com/jmkoo/daedap/pkg/transport/http"
)

// scriptedRound is one canned provider response.
type scriptedRound struct {
	chunks []string
	reply  *provider.Reply
	err    error
}

// scriptedProvider replays rounds in order; the last round repeats.
type scriptedProvider struct {
	rounds []scriptedRound
	calls  int
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-model" }
func (p *scriptedProvider) Close() error  { return nil }

func (p *scriptedProvider) round() scriptedRound {
	idx := p.calls - 1
	if idx >= len(p.rounds) {
		idx = len(p.rounds) - 1
	}
	return p.rounds[idx]
}

func (p *scriptedProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Reply, error) {
	p.calls++
	r := p.round()
	if r.err != nil {
		return nil, r.err
	}
	return r.reply, nil
}

func (p *scriptedProvider) Stream(ctx context.Context, req *provider.Request) (<-chan provider.Chunk, error) {
	p.calls++
	r := p.round()

	ch := make(chan provider.Chunk)
	go func() {
		defer close(ch)
		for _, text := range r.chunks {
			ch <- provider.Chunk{Text: text}
		}
		if r.err != nil {
			ch <- provider.Chunk{Err: r.err}
			return
		}
		ch <- provider.Chunk{Reply: r.reply}
	}()
	return ch, nil
}

// startServer builds the full stack around the scripted rounds and
// serves it on a loopback listener. The returned URL has no trailing
// slash.
func startServer(t *testing.T, rounds []scriptedRound, opts ...transporthttp.ServerOption) string {
	t.Helper()

	registry, err := tools.NewRegistry(clock.Definitions()...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	eng, err := engine.New(&scriptedProvider{rounds: rounds}, registry, engine.Config{MaxTurns: 4})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	srv := transporthttp.NewServer(eng, append([]transporthttp.ServerOption{
		transporthttp.WithMetricsPath("/metrics"),
	}, opts...)...)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.ServeOn(ln) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("shutdown: %v", err)
		}
		if err := <-done; err != nil {
			t.Errorf("serve: %v", err)
		}
	})

	return "http://" + ln.Addr().String()
}

func postAsk(t *testing.T, baseURL string, req api.AskRequest) *http.Response {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := http.Post(baseURL+"/v1/ask", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST /v1/ask: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return string(body)
}

// frame is one parsed SSE event.
type frame struct {
	event string
	data  string
}

// readFrames consumes the SSE body until EOF.
func readFrames(t *testing.T, body io.ReadCloser) []frame {
	t.Helper()
	defer body.Close()

	var frames []frame
	var current frame

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if current.event != "" {
				frames = append(frames, current)
				current = frame{}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("reading SSE stream: %v", err)
	}
	return frames
}

func decodeFrame[T any](t *testing.T, f frame) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(f.data), &v); err != nil {
		t.Fatalf("decoding %s frame %q: %v", f.event, f.data, err)
	}
	return v
}

func eventTypes(frames []frame) []string {
	types := make([]string, len(frames))
	for i, f := range frames {
		types[i] = f.event
	}
	return types
}
