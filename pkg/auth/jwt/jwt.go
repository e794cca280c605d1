// Package jwt validates RSA-signed bearer JWTs against a JWKS (JSON
// Web Key Set) endpoint, with configurable issuer, audience, and claim
// mapping.
package jwt

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/jmkoo/daedap/pkg/auth"
)

// Config holds the JWT authenticator settings.
type Config struct {
	// Issuer is the expected iss claim. Empty skips issuer validation.
	Issuer string

	// Audience is the expected aud claim. Empty skips audience validation.
	Audience string

	// JWKSURL is where signing keys are fetched from.
	JWKSURL string

	// SubjectClaim names the claim used as the identity subject.
	// Default "sub".
	SubjectClaim string

	// TierClaim names the claim mapped to the rate limit tier.
	// Default "tier".
	TierClaim string

	// ScopesClaim names the claim holding authorization scopes, either
	// a space-separated string or a JSON array. Default "scope".
	ScopesClaim string

	// CacheTTL bounds how long fetched keys are reused. Default 1 hour.
	CacheTTL time.Duration

	// HTTPClient overrides the client used for JWKS fetches.
	HTTPClient *http.Client
}

func (c *Config) applyDefaults() {
	if c.SubjectClaim == "" {
		c.SubjectClaim = "sub"
	}
	if c.TierClaim == "" {
		c.TierClaim = "tier"
	}
	if c.ScopesClaim == "" {
		c.ScopesClaim = "scope"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Hour
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}

// Authenticator validates JWT bearer tokens.
type Authenticator struct {
	config Config
	keys   *keyCache
}

// New creates a JWT authenticator.
func New(cfg Config) *Authenticator {
	cfg.applyDefaults()
	return &Authenticator{
		config: cfg,
		keys: &keyCache{
			byKid:   make(map[string]*rsa.PublicKey),
			ttl:     cfg.CacheTTL,
			jwksURL: cfg.JWKSURL,
			client:  cfg.HTTPClient,
		},
	}
}

// Authenticate validates a bearer JWT. It abstains when no bearer
// credential is present and denies on any validation failure.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) auth.Result {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.Result{Decision: auth.Abstain}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return auth.Result{Decision: auth.Abstain}
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" {
		return auth.Result{Decision: auth.Deny, Err: fmt.Errorf("empty bearer token")}
	}

	token, err := jwtlib.Parse(tokenStr, func(token *jwtlib.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtlib.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("token missing kid header")
		}

		key, fetchErr := a.keys.get(ctx, kid)
		if fetchErr != nil {
			return nil, fmt.Errorf("fetching JWKS key for kid %q: %w", kid, fetchErr)
		}
		return key, nil
	}, a.parserOptions()...)
	if err != nil {
		slog.Debug("JWT validation failed", slog.String("error", err.Error()))
		return auth.Result{Decision: auth.Deny, Err: fmt.Errorf("invalid JWT: %w", err)}
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok || !token.Valid {
		return auth.Result{Decision: auth.Deny, Err: fmt.Errorf("invalid JWT claims")}
	}

	subject := claimString(claims, a.config.SubjectClaim)
	if subject == "" {
		return auth.Result{
			Decision: auth.Deny,
			Err:      fmt.Errorf("JWT missing %q claim", a.config.SubjectClaim),
		}
	}

	return auth.Result{
		Decision: auth.Allow,
		Identity: &auth.Identity{
			Subject: subject,
			Tier:    claimString(claims, a.config.TierClaim),
			Scopes:  claimScopes(claims, a.config.ScopesClaim),
		},
	}
}

func (a *Authenticator) parserOptions() []jwtlib.ParserOption {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	}
	if a.config.Issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(a.config.Issuer))
	}
	if a.config.Audience != "" {
		opts = append(opts, jwtlib.WithAudience(a.config.Audience))
	}
	return opts
}

func claimString(claims jwtlib.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// claimScopes accepts both a space-separated string and a JSON array.
func claimScopes(claims jwtlib.MapClaims, key string) []string {
	val, ok := claims[key]
	if !ok {
		return nil
	}

	if s, ok := val.(string); ok {
		parts := strings.Fields(s)
		if len(parts) == 0 {
			return nil
		}
		return parts
	}

	if arr, ok := val.([]interface{}); ok {
		var scopes []string
		for _, item := range arr {
			if s, ok := item.(string); ok {
				scopes = append(scopes, s)
			}
		}
		return scopes
	}

	return nil
}

// keyCache caches RSA public keys fetched from the JWKS endpoint.
type keyCache struct {
	mu        sync.RWMutex
	byKid     map[string]*rsa.PublicKey
	fetchedAt time.Time
	ttl       time.Duration
	jwksURL   string
	client    *http.Client
}

func (c *keyCache) get(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	if key, ok := c.byKid[kid]; ok && time.Since(c.fetchedAt) < c.ttl {
		c.mu.RUnlock()
		return key, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have refreshed while we waited.
	if key, ok := c.byKid[kid]; ok && time.Since(c.fetchedAt) < c.ttl {
		return key, nil
	}

	if err := c.refresh(ctx); err != nil {
		return nil, err
	}

	key, ok := c.byKid[kid]
	if !ok {
		return nil, fmt.Errorf("key %q not found in JWKS", kid)
	}
	return key, nil
}

// refresh fetches the JWKS document. Caller holds the write lock.
func (c *keyCache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("creating JWKS request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading JWKS response: %w", err)
	}

	var doc jwksDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("parsing JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, jwk := range doc.Keys {
		if jwk.Kty != "RSA" {
			continue
		}
		if jwk.Use != "" && jwk.Use != "sig" {
			continue
		}

		pub, err := parseRSAPublicKey(jwk)
		if err != nil {
			slog.Warn("skipping JWKS key", slog.String("kid", jwk.Kid), slog.String("error", err.Error()))
			continue
		}
		keys[jwk.Kid] = pub
	}

	c.byKid = keys
	c.fetchedAt = time.Now()

	slog.Debug("JWKS cache refreshed", slog.Int("keys", len(keys)), slog.String("url", c.jwksURL))
	return nil
}

type jwksDocument struct {
	Keys []jwkKey `json:"keys"`
}

type jwkKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func parseRSAPublicKey(jwk jwkKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() {
		return nil, fmt.Errorf("RSA exponent too large")
	}

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}
