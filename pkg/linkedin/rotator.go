// Package linkedin is the client for the RapidAPI LinkedIn data service:
// post collection, reaction listing, and profile/company enrichment lookups.
package linkedin

import (
	"sync"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/config"
)

// CredentialRotator distributes requests across a pool of API keys.
// After a successful request the caller advances to the next key so load
// spreads evenly. On failure the caller walks the remaining keys once each
// before giving up.
type CredentialRotator struct {
	mu    sync.Mutex
	creds []config.Credential
	index int
}

// NewCredentialRotator creates a rotator over the enabled credentials.
func NewCredentialRotator(creds []config.Credential) *CredentialRotator {
	enabled := make([]config.Credential, 0, len(creds))
	for _, c := range creds {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	return &CredentialRotator{creds: enabled}
}

// Size returns the number of credentials in rotation.
func (r *CredentialRotator) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.creds)
}

// Current returns the credential requests should use right now.
func (r *CredentialRotator) Current() (config.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.creds) == 0 {
		return config.Credential{}, apperrors.ErrNoCredentials
	}
	return r.creds[r.index], nil
}

// Advance moves to the next credential. Called after a successful request
// so consecutive requests use different keys.
func (r *CredentialRotator) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.creds) == 0 {
		return
	}
	r.index = (r.index + 1) % len(r.creds)
}

// Ordered returns all credentials starting from the current one. Failure
// handling iterates this slice so every key gets one chance per request.
func (r *CredentialRotator) Ordered() []config.Credential {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.creds) == 0 {
		return nil
	}
	ordered := make([]config.Credential, 0, len(r.creds))
	for i := 0; i < len(r.creds); i++ {
		ordered = append(ordered, r.creds[(r.index+i)%len(r.creds)])
	}
	return ordered
}
