// Package google verifies Google-issued ID tokens for the federated login
// path. The service never sees a password here; trust comes from Google's
// signature over the token and an audience check against our client ID.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gmeladze/identity-service/internal/common"
	"github.com/gmeladze/identity-service/internal/logging"
)

const issuerURL = "https://accounts.google.com"

// Identity is the verified claim set extracted from an ID token.
type Identity struct {
	Email string
	Name  string
}

// IdentityVerifier is what the auth service depends on; tests substitute a
// fake, production uses Client.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*Identity, error)
}

// Client verifies raw ID tokens against Google's OIDC discovery document.
type Client struct {
	verifier *oidc.IDTokenVerifier
	logger   logging.Logger
}

// NewClient discovers Google's OIDC configuration and builds a verifier
// whose accepted audience is the given OAuth client ID.
func NewClient(ctx context.Context, clientID string, logger logging.Logger) (*Client, error) {
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("initializing google oidc provider: %w", err)
	}

	return &Client{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		logger:   logger.With("module", "google_client"),
	}, nil
}

// Verify checks the token signature, audience and expiry and returns the
// email and display name it asserts. Every failure reason (network,
// signature, audience, expiry, missing claims) collapses to
// common.ErrorIdentityVerification; the cause is only logged.
func (c *Client) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.logger.Warn(ctx, "id token verification failed", "error", err.Error())
		return nil, common.ErrorIdentityVerification
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.logger.Warn(ctx, "id token claims decode failed", "error", err.Error())
		return nil, common.ErrorIdentityVerification
	}
	if claims.Email == "" {
		c.logger.Warn(ctx, "id token carries no email claim")
		return nil, common.ErrorIdentityVerification
	}

	return &Identity{Email: claims.Email, Name: claims.Name}, nil
}
