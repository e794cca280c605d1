package auth

import (
	"context"
	"errors"
	"net/http"
)

// Decision is the outcome of a single authenticator.
type Decision int

const (
	// Allow means the credentials are valid. The chain stops and the
	// identity is attached to the request.
	Allow Decision = iota

	// Deny means credentials are present but invalid. The chain stops
	// and the request is rejected.
	Deny

	// Abstain means this authenticator does not handle the credential
	// type. The chain moves on to the next one.
	Abstain
)

// Result carries the outcome of an authentication attempt.
type Result struct {
	Decision Decision
	Identity *Identity // populated only when Decision == Allow
	Err      error     // populated only when Decision == Deny
}

// Identity is an authenticated caller.
type Identity struct {
	// Subject uniquely identifies the caller.
	Subject string

	// Tier selects the rate limit bucket.
	Tier string

	// Scopes lists granted authorization scopes.
	Scopes []string
}

// Sentinel errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrRateLimited     = errors.New("rate limit exceeded")
)

// Authenticator inspects request credentials and votes.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) Result
}

// Chain evaluates authenticators left to right and stops on the first
// Allow or Deny.
type Chain struct {
	Authenticators []Authenticator

	// AllowAnonymous controls what happens when every authenticator
	// abstains: true grants an anonymous identity, false rejects.
	AllowAnonymous bool
}

// Authenticate runs the chain.
func (c *Chain) Authenticate(ctx context.Context, r *http.Request) Result {
	for _, a := range c.Authenticators {
		res := a.Authenticate(ctx, r)
		if res.Decision != Abstain {
			return res
		}
	}

	if c.AllowAnonymous {
		return Result{
			Decision: Allow,
			Identity: &Identity{Subject: "anonymous", Tier: "default"},
		}
	}

	return Result{Decision: Deny, Err: ErrUnauthenticated}
}
