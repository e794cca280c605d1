// Package provider abstracts the language-model inference backend. The
// interface is backend-agnostic: the engine hands a system instruction, a
// transcript, and tool declarations to the provider and gets back either a
// complete reply or an incremental chunk stream. Adapters live in
// subpackages (gemini).
package provider
