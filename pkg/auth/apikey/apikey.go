// Package apikey validates bearer tokens against a static key list
// using SHA-256 hashing and constant-time comparison.
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/jmkoo/daedap/pkg/auth"
)

// Key is the configuration shape for one API key.
type Key struct {
	Secret  string
	Subject string
	Tier    string
}

type entry struct {
	hash     [32]byte
	identity auth.Identity
}

// Authenticator validates bearer tokens against hashed keys. Plaintext
// secrets are discarded at construction.
type Authenticator struct {
	entries []entry
}

// New creates an authenticator from the configured keys.
func New(keys []Key) *Authenticator {
	a := &Authenticator{}
	for _, k := range keys {
		a.entries = append(a.entries, entry{
			hash:     sha256.Sum256([]byte(k.Secret)),
			identity: auth.Identity{Subject: k.Subject, Tier: k.Tier},
		})
	}
	return a
}

// Authenticate checks the Authorization header. It abstains when the
// header is missing or not a Bearer scheme, denies when a bearer token
// is present but unknown.
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.Result {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.Result{Decision: auth.Abstain}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return auth.Result{Decision: auth.Abstain}
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return auth.Result{Decision: auth.Deny, Err: auth.ErrUnauthenticated}
	}

	hash := sha256.Sum256([]byte(token))
	for _, e := range a.entries {
		if subtle.ConstantTimeCompare(hash[:], e.hash[:]) == 1 {
			id := e.identity
			return auth.Result{Decision: auth.Allow, Identity: &id}
		}
	}

	return auth.Result{Decision: auth.Deny, Err: auth.ErrUnauthenticated}
}
