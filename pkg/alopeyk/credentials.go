package alopeyk

import "sync"

// Credentials resolves the bearer token for a client. An explicit override
// takes precedence over the configured default.
type Credentials struct {
	mu       sync.RWMutex
	fallback string
	override string
}

// NewCredentials creates credentials backed by a default token.
func NewCredentials(defaultToken string) *Credentials {
	return &Credentials{fallback: defaultToken}
}

// Set overrides the default token. An empty value restores the default.
func (c *Credentials) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override = token
}

// Resolve returns the active token, or false when none is usable.
func (c *Credentials) Resolve() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	token := c.override
	if token == "" {
		token = c.fallback
	}
	if token == "" || token == TokenPlaceholder {
		return "", false
	}
	return token, true
}
