package google

import (
	"context"

	"github.com/gmeladze/identity-service/internal/common"
	"github.com/gmeladze/identity-service/internal/logging"
)

// Disabled returns a verifier that rejects every token. The app falls back
// to it when no Google client ID is configured, so the federated-login
// endpoint stays up but never authenticates anyone.
func Disabled(logger logging.Logger) IdentityVerifier {
	return &disabledVerifier{logger: logger.With("module", "google_client")}
}

type disabledVerifier struct {
	logger logging.Logger
}

func (d *disabledVerifier) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	d.logger.Warn(ctx, "federated login attempted but no google client id is configured")
	return nil, common.ErrorIdentityVerification
}
