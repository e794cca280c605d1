// Package auth protects the ask endpoint with pluggable authenticators
// evaluated as a voting chain, plus an optional per-tier rate limiter.
//
// Authenticators vote Allow, Deny, or Abstain. The chain stops at the
// first non-abstaining vote; when everyone abstains the chain falls
// back to anonymous access or rejection depending on configuration.
// Subpackages provide API key and JWT authenticators.
package auth
