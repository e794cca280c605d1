// Package api defines the wire types for the daedap ask endpoint: the
// request envelope, the streaming event vocabulary, and the structured
// error shape shared by streaming and non-streaming responses.
package api
