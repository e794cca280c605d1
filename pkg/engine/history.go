package engine

import (
	"strings"

	"github.com/jmkoo/daedap/pkg/api"
	"github.com/jmkoo/daedap/pkg/provider"
)

// NormalizeHistory converts client-supplied history into a canonical
// transcript the model backend accepts:
//
//   - entries before the first user entry are dropped, so the transcript
//     never opens with a model message
//   - the "assistant" role is coerced to "model"
//   - entries with any other unknown role are dropped entirely
//   - each surviving entry becomes a single text content; Text wins over
//     Parts, and Parts are joined in order when Text is empty
func NormalizeHistory(history []api.HistoryEntry) []provider.Content {
	first := -1
	for i, h := range history {
		if h.Role == string(api.RoleUser) {
			first = i
			break
		}
	}
	if first == -1 {
		return nil
	}

	var out []provider.Content
	for _, h := range history[first:] {
		role := h.Role
		if role == "assistant" {
			role = string(api.RoleModel)
		}
		if role != string(api.RoleUser) && role != string(api.RoleModel) {
			continue
		}
		out = append(out, provider.NewTextContent(api.Role(role), entryText(h)))
	}
	return out
}

// entryText extracts the text of one history entry. Text is preferred;
// Parts are joined with newlines as a fallback.
func entryText(h api.HistoryEntry) string {
	if h.Text != "" {
		return h.Text
	}
	if len(h.Parts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range h.Parts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
