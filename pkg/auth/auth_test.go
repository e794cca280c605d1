package auth

import (
	"context"
	"net/http"
	"testing"
)

type stubAuthn struct {
	result Result
}

func (s *stubAuthn) Authenticate(_ context.Context, _ *http.Request) Result {
	return s.result
}

func TestChainFirstAllowStops(t *testing.T) {
	chain := &Chain{
		Authenticators: []Authenticator{
			&stubAuthn{result: Result{Decision: Allow, Identity: &Identity{Subject: "alice"}}},
			&stubAuthn{result: Result{Decision: Deny, Err: ErrUnauthenticated}},
		},
	}

	r, _ := http.NewRequest("POST", "/v1/ask", nil)
	res := chain.Authenticate(context.Background(), r)

	if res.Decision != Allow {
		t.Fatalf("Decision = %d, want Allow", res.Decision)
	}
	if res.Identity.Subject != "alice" {
		t.Errorf("Subject = %q, want %q", res.Identity.Subject, "alice")
	}
}

func TestChainFirstDenyStops(t *testing.T) {
	chain := &Chain{
		Authenticators: []Authenticator{
			&stubAuthn{result: Result{Decision: Deny, Err: ErrUnauthenticated}},
			&stubAuthn{result: Result{Decision: Allow, Identity: &Identity{Subject: "bob"}}},
		},
	}

	r, _ := http.NewRequest("POST", "/v1/ask", nil)
	res := chain.Authenticate(context.Background(), r)

	if res.Decision != Deny {
		t.Fatalf("Decision = %d, want Deny", res.Decision)
	}
}

func TestChainAbstainThenAllow(t *testing.T) {
	chain := &Chain{
		Authenticators: []Authenticator{
			&stubAuthn{result: Result{Decision: Abstain}},
			&stubAuthn{result: Result{Decision: Allow, Identity: &Identity{Subject: "jwt-user"}}},
		},
	}

	r, _ := http.NewRequest("POST", "/v1/ask", nil)
	res := chain.Authenticate(context.Background(), r)

	if res.Decision != Allow {
		t.Fatalf("Decision = %d, want Allow", res.Decision)
	}
	if res.Identity.Subject != "jwt-user" {
		t.Errorf("Subject = %q, want %q", res.Identity.Subject, "jwt-user")
	}
}

func TestChainAllAbstain(t *testing.T) {
	tests := []struct {
		name           string
		allowAnonymous bool
		want           Decision
	}{
		{"reject by default", false, Deny},
		{"anonymous allowed", true, Allow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chain := &Chain{
				Authenticators: []Authenticator{&stubAuthn{result: Result{Decision: Abstain}}},
				AllowAnonymous: tc.allowAnonymous,
			}

			r, _ := http.NewRequest("POST", "/v1/ask", nil)
			res := chain.Authenticate(context.Background(), r)

			if res.Decision != tc.want {
				t.Fatalf("Decision = %d, want %d", res.Decision, tc.want)
			}
			if tc.allowAnonymous && res.Identity.Subject != "anonymous" {
				t.Errorf("Subject = %q, want %q", res.Identity.Subject, "anonymous")
			}
		})
	}
}

func TestChainEmpty(t *testing.T) {
	chain := &Chain{}

	r, _ := http.NewRequest("POST", "/v1/ask", nil)
	res := chain.Authenticate(context.Background(), r)

	if res.Decision != Deny {
		t.Fatalf("Decision = %d, want Deny (empty chain)", res.Decision)
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	if IdentityFromContext(ctx) != nil {
		t.Error("expected nil identity from empty context")
	}

	id := &Identity{Subject: "alice"}
	ctx = SetIdentity(ctx, id)
	got := IdentityFromContext(ctx)
	if got == nil || got.Subject != "alice" {
		t.Errorf("got %v, want alice", got)
	}
}
