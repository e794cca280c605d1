// Package http adapts the transport.Asker contract to HTTP, serving the
// ask endpoint with JSON and SSE output plus health and metrics routes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmkoo/daedap/pkg/api"
	"github.com/jmkoo/daedap/pkg/observability"
	"github.com/jmkoo/daedap/pkg/transport"
)

// Adapter serves the ask API over HTTP.
type Adapter struct {
	asker  transport.Asker
	mux    *http.ServeMux
	config Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	Addr        string
	MaxBodySize int64
	MetricsPath string // empty disables the metrics endpoint
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		MaxBodySize: 1 << 20, // 1 MB
		MetricsPath: "/metrics",
	}
}

// NewAdapter creates an HTTP adapter around the given Asker. Middleware
// is applied to the Asker in the given order.
func NewAdapter(asker transport.Asker, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		asker = transport.Chain(middlewares...)(asker)
	}

	a := &Adapter{
		asker:  asker,
		mux:    http.NewServeMux(),
		config: cfg,
	}

	a.mux.HandleFunc("POST /v1/ask", a.handleAsk)
	a.mux.HandleFunc("GET /healthz", a.handleHealthz)
	if cfg.MetricsPath != "" {
		a.mux.Handle("GET "+cfg.MetricsPath, promhttp.Handler())
	}

	return a
}

// Handler returns the http.Handler for this adapter. Use this to
// integrate with an http.Server or to test with httptest. The returned
// handler includes request ID propagation and request metrics.
func (a *Adapter) Handler() http.Handler {
	return observability.MetricsMiddleware(httpRequestIDMiddleware(a.mux))
}

// handleAsk handles POST /v1/ask.
func (a *Adapter) handleAsk(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && ct != "application/json; charset=utf-8" {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError(fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	rw := newAskResponseWriter(w)
	if err := a.asker.Ask(r.Context(), &req, rw); err != nil {
		a.writeHandlerError(w, rw, err)
	}
}

// handleHealthz handles GET /healthz.
func (a *Adapter) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// writeHandlerError writes an error from the handler. If streaming has
// already started, the error becomes the terminal SSE error event.
// Otherwise it is written as a JSON error body.
func (a *Adapter) writeHandlerError(w http.ResponseWriter, rw *askResponseWriter, err error) {
	apiErr := api.FromError(err)

	if rw.hasStartedStreaming() {
		rw.WriteEvent(context.Background(), api.Event{
			Type: api.EventError,
			Data: apiErr,
		})
		return
	}

	transport.WriteAPIError(w, apiErr)
}

// httpRequestIDMiddleware is HTTP-level middleware that propagates the
// X-Request-ID header. If present in the request, it is forwarded into
// the context and reflected back on the response before the first write.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx := transport.ContextWithRequestID(r.Context(), id)
			r = r.WithContext(ctx)
		}
		rw := &requestIDResponseWriter{ResponseWriter: w, r: r}
		next.ServeHTTP(rw, r)
	})
}

// requestIDResponseWriter wraps http.ResponseWriter to inject the
// X-Request-ID header before the first write.
type requestIDResponseWriter struct {
	http.ResponseWriter
	r           *http.Request
	headersSent bool
}

func (w *requestIDResponseWriter) WriteHeader(statusCode int) {
	w.ensureRequestIDHeader()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *requestIDResponseWriter) Write(b []byte) (int, error) {
	w.ensureRequestIDHeader()
	return w.ResponseWriter.Write(b)
}

func (w *requestIDResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter for http.NewResponseController.
func (w *requestIDResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *requestIDResponseWriter) ensureRequestIDHeader() {
	if w.headersSent {
		return
	}
	w.headersSent = true
	if id := transport.RequestIDFromContext(w.r.Context()); id != "" {
		w.ResponseWriter.Header().Set("X-Request-ID", id)
	}
}
