package transport

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jmkoo/daedap/pkg/api"
)

// nopWriter is a no-op EventWriter for middleware tests.
type nopWriter struct{}

func (nopWriter) WriteEvent(context.Context, api.Event) error    { return nil }
func (nopWriter) WriteAnswer(context.Context, *api.Answer) error { return nil }
func (nopWriter) Flush() error                                   { return nil }

func TestChainOrder(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next Asker) Asker {
			return AskerFunc(func(ctx context.Context, req *api.AskRequest, w EventWriter) error {
				order = append(order, name+" in")
				err := next.Ask(ctx, req, w)
				order = append(order, name+" out")
				return err
			})
		}
	}

	handler := AskerFunc(func(ctx context.Context, req *api.AskRequest, w EventWriter) error {
		order = append(order, "handler")
		return nil
	})

	chained := Chain(mw("a"), mw("b"))(handler)
	if err := chained.Ask(context.Background(), &api.AskRequest{}, nopWriter{}); err != nil {
		t.Fatalf("Ask: %v", err)
	}

	want := []string{"a in", "b in", "handler", "b out", "a out"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	var got string
	handler := AskerFunc(func(ctx context.Context, req *api.AskRequest, w EventWriter) error {
		got = RequestIDFromContext(ctx)
		return nil
	})

	if err := RequestID()(handler).Ask(context.Background(), &api.AskRequest{}, nopWriter{}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got == "" {
		t.Error("expected generated request ID, got empty string")
	}
}

func TestRequestIDPreservesExisting(t *testing.T) {
	var got string
	handler := AskerFunc(func(ctx context.Context, req *api.AskRequest, w EventWriter) error {
		got = RequestIDFromContext(ctx)
		return nil
	})

	ctx := ContextWithRequestID(context.Background(), "req-123")
	if err := RequestID()(handler).Ask(ctx, &api.AskRequest{}, nopWriter{}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "req-123" {
		t.Errorf("request ID = %q, want req-123", got)
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	handler := AskerFunc(func(ctx context.Context, req *api.AskRequest, w EventWriter) error {
		panic("boom")
	})

	err := Recovery()(handler).Ask(context.Background(), &api.AskRequest{}, nopWriter{})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	apiErr := api.FromError(err)
	if apiErr.Name != api.NameServerError {
		t.Errorf("name = %q, want %q", apiErr.Name, api.NameServerError)
	}
}

func TestLoggingPassesThroughError(t *testing.T) {
	wantErr := api.NewInvalidRequestError("bad input")
	handler := AskerFunc(func(ctx context.Context, req *api.AskRequest, w EventWriter) error {
		return wantErr
	})

	err := Logging(slog.Default())(handler).Ask(context.Background(), &api.AskRequest{}, nopWriter{})
	if err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
