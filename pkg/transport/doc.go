// Package transport defines the handler interfaces and middleware chain
// for the daedap HTTP/SSE transport layer.
//
// The transport layer bridges external clients and the conversation
// engine. It deserializes incoming requests into the protocol types
// defined in pkg/api, dispatches them for processing, and serializes
// results back to the client in either synchronous (JSON) or streaming
// (SSE) format.
//
// # Handler Interface
//
// Asker is the contract between the transport layer and the engine: it
// receives an api.AskRequest and writes the outcome to an EventWriter.
// The EventWriter abstracts streaming and non-streaming output, so the
// handler can emit SSE events or a complete JSON answer without knowing
// the underlying transport protocol.
//
// # Middleware
//
// The middleware chain wraps Asker with cross-cutting concerns. Built-in
// middleware provides panic recovery, request ID assignment
// (X-Request-ID), and structured logging via log/slog.
package transport
