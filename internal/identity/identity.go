// Package identity resolves who the client is acting for. The identity
// provider lives outside this application; we consume the JWT it issues and
// read the claims we need without verifying the signature, which only the
// remote service can do.
package identity

import (
	"sync"

	"cyrus/internal/config"
	"cyrus/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity token claims the client reads
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Identity describes the acting user for a session
type Identity struct {
	UserID string
	Email  string
	Token  string // Raw bearer token, empty for anonymous sessions
}

// Anonymous reports whether no identity token backs this identity
func (id Identity) Anonymous() bool {
	return id.Token == ""
}

// FromToken extracts an Identity from a provider-issued JWT without verifying
// the signature. Verification happens server-side; the client only needs the
// claims for display and for scoping history fetches.
func FromToken(token string) (Identity, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, errors.NewValidationError(errors.ErrCodeMissingToken,
			"Identity token is not a parseable JWT", err)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return Identity{}, errors.NewValidationError(errors.ErrCodeMissingToken,
			"Identity token carries no user id claim", nil)
	}

	return Identity{
		UserID: userID,
		Email:  claims.Email,
		Token:  token,
	}, nil
}

// Provider holds the current identity and supports hot token refresh from the
// token-file watcher. All reads go through Current.
type Provider struct {
	mu      sync.RWMutex
	current Identity
	logger  *errors.Logger
}

// NewProvider resolves the initial identity from configuration. A configured
// token wins; an explicit userID falls back to an anonymous identity; with
// neither, the provider stays empty and history is unavailable.
func NewProvider(cfg config.AuthConfig, logger *errors.Logger) (*Provider, error) {
	p := &Provider{logger: logger}

	if cfg.Token != "" {
		id, err := FromToken(cfg.Token)
		if err != nil {
			return nil, err
		}
		p.current = id
		logger.Debug("Identity resolved from token", "user_id", id.UserID)
		return p, nil
	}

	if cfg.UserID != "" {
		p.current = Identity{UserID: cfg.UserID}
		logger.Debug("Identity resolved from explicit user id", "user_id", cfg.UserID)
	}

	return p, nil
}

// Current returns the active identity
func (p *Provider) Current() Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// UpdateToken replaces the identity from a refreshed token. Intended as the
// token-watcher callback; a bad token keeps the previous identity.
func (p *Provider) UpdateToken(token string) {
	id, err := FromToken(token)
	if err != nil {
		p.logger.LogError(err, "Ignoring refreshed token that failed to parse")
		return
	}

	p.mu.Lock()
	p.current = id
	p.mu.Unlock()

	p.logger.Info("Identity updated from refreshed token", "user_id", id.UserID)
}
