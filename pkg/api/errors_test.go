package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with code",
			err:  NewModelError("503", "backend unavailable"),
			want: "model_error (503): backend unavailable",
		},
		{
			name: "without code",
			err:  NewServerError("boom"),
			want: "server_error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromError(t *testing.T) {
	t.Run("preserves wrapped Error", func(t *testing.T) {
		orig := NewModelError("429", "quota exceeded")
		wrapped := fmt.Errorf("round 3: %w", orig)

		got := FromError(wrapped)
		if got != orig {
			t.Errorf("FromError did not unwrap to the original *Error")
		}
	})

	t.Run("converts plain errors to server_error", func(t *testing.T) {
		got := FromError(errors.New("plain"))
		if got.Name != NameServerError {
			t.Errorf("Name = %q, want %q", got.Name, NameServerError)
		}
		if got.Message != "plain" {
			t.Errorf("Message = %q, want %q", got.Message, "plain")
		}
	})
}

func TestErrorBody(t *testing.T) {
	body := NewModelError("ENOTFOUND", "dns failure").Body()
	if !body.Error {
		t.Error("Body().Error should be true")
	}
	if body.Code != "ENOTFOUND" || body.Name != NameModelError || body.Message != "dns failure" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestEventTypeIsTerminal(t *testing.T) {
	terminal := map[EventType]bool{
		EventPhase:      false,
		EventToken:      false,
		EventToolCall:   false,
		EventToolResult: false,
		EventDone:       true,
		EventError:      true,
	}
	for typ, want := range terminal {
		if got := typ.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", typ, got, want)
		}
	}
}
