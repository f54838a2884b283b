// Package services contains the server-side business logic. This file
// implements AuthService, which owns every auth policy decision: when a
// registration is rejected, when a federated login auto-provisions an
// account, and how lower-layer failures map to response envelopes.
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gmeladze/identity-service/internal/common"
	"github.com/gmeladze/identity-service/internal/cryptox"
	"github.com/gmeladze/identity-service/internal/logging"
	"github.com/gmeladze/identity-service/internal/server/auth"
	"github.com/gmeladze/identity-service/internal/server/config"
	"github.com/gmeladze/identity-service/internal/server/google"
	"github.com/gmeladze/identity-service/internal/server/messages"
	"github.com/gmeladze/identity-service/internal/server/models"
	"github.com/gmeladze/identity-service/internal/server/repositories/accounts"
	"github.com/gmeladze/identity-service/internal/server/validation"
)

// Result is the uniform envelope every operation returns. StatusCode is the
// HTTP status the transport should write; it is not part of the body.
type Result struct {
	User       *models.AccountView      `json:"user"`
	Message    messages.Code            `json:"msg,omitempty"`
	StatusCode int                      `json:"-"`
	Errors     map[string]messages.Code `json:"errors,omitempty"`
}

// AuthService provides the auth operations:
// - Register: validate, create a local account, log it in
// - Login: verify credentials and mint a token
// - LoginWithGoogle: verify a Google ID token, auto-provision if needed
// - WhoAmI: resolve an already-authenticated email to its account view
// - EmailAvailable: advisory availability check for registration forms
//
// No lower-layer error escapes: every failure resolves to an envelope, with
// the internal cause logged here and a generic message surfaced.
type AuthService struct {
	repo      accounts.Repository
	cipher    *cryptox.Cipher
	verifier  google.IdentityVerifier
	validator *validation.Validator
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    logging.Logger
}

// NewAuthService constructs an AuthService from its collaborators and the
// server config.
func NewAuthService(repo accounts.Repository, cipher *cryptox.Cipher, verifier google.IdentityVerifier, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		cipher:    cipher,
		verifier:  verifier,
		validator: validation.New(repo, logger),
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenValidityDuration,
		logger:    logger.With("module", "auth_service"),
	}
}

// Register validates the form, creates a local account and immediately logs
// it in so the response carries a token. A lost race on the unique email
// index surfaces as emailAlreadyUsed, same as the advisory pre-check.
func (s *AuthService) Register(ctx context.Context, form validation.RegisterForm) *Result {
	if errs := s.validator.ValidateRegistration(ctx, form); len(errs) > 0 {
		return &Result{Message: messages.InvalidFormValues, StatusCode: http.StatusBadRequest, Errors: errs}
	}

	encrypted, err := s.cipher.Encrypt(form.Password)
	if err != nil {
		s.logger.Error(ctx, "password encryption failed", "error", err.Error())
		return unexpectedResult()
	}

	account := &models.Account{
		Email:         form.Email,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		Password:      encrypted,
		AuthType:      models.AuthTypeLocal,
		AgreedOnTerms: form.AgreedOnTerms,
	}

	if _, err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return &Result{Message: messages.EmailAlreadyUsed, StatusCode: http.StatusBadRequest}
		}
		s.logger.Error(ctx, "account creation failed", "error", err.Error())
		return unexpectedResult()
	}

	res := s.Login(ctx, form.Email, form.Password)
	if res.StatusCode != http.StatusOK {
		return res
	}
	res.Message = messages.RegisterSuccess
	return res
}

// Login authenticates by email and password. A missing account and a wrong
// password produce identical envelopes so callers cannot probe for account
// existence.
func (s *AuthService) Login(ctx context.Context, email, password string) *Result {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return invalidCredentialsResult()
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return unexpectedResult()
	}

	if !s.cipher.Compare(password, account.Password) {
		return invalidCredentialsResult()
	}

	return s.loginResult(ctx, account, messages.LoginSuccess)
}

// LoginWithGoogle verifies the provider token and logs the verified email
// in, auto-provisioning a federated account on first contact. A local
// account with the same email is never entered this way.
func (s *AuthService) LoginWithGoogle(ctx context.Context, rawIDToken, clientID string) *Result {
	identity, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		s.logger.Warn(ctx, "google login rejected", "error", err.Error())
		return unexpectedResult()
	}

	provisioned := false

	account, err := s.repo.FindByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		// existing account, authType decides below
	case errors.Is(err, common.ErrorNotFound):
		account, provisioned, err = s.provisionFederated(ctx, identity, clientID)
		if err != nil {
			s.logger.Error(ctx, "federated provisioning failed", "error", err.Error())
			return unexpectedResult()
		}
	default:
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return unexpectedResult()
	}

	if account.AuthType != models.AuthTypeFederated {
		return &Result{Message: messages.EmailAlreadyUsed, StatusCode: http.StatusBadRequest}
	}

	// Provider verification already established trust; no password compare.
	msg := messages.LoginSuccess
	if provisioned {
		msg = messages.RegisterSuccess
	}
	return s.loginResult(ctx, account, msg)
}

// WhoAmI resolves an authenticated caller's email to its account view. The
// email comes from a verified token, so a missing account means the identity
// no longer exists and the caller is treated as unauthenticated.
func (s *AuthService) WhoAmI(ctx context.Context, email string) *Result {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return invalidCredentialsResult()
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return unexpectedResult()
	}

	return &Result{User: account.View(), StatusCode: http.StatusOK}
}

// EmailAvailable reports whether an email can still be registered. Taken
// emails answer with the same envelope the registration race produces.
func (s *AuthService) EmailAvailable(ctx context.Context, email string) *Result {
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return &Result{Message: messages.EmailAlreadyUsed, StatusCode: http.StatusBadRequest}
	case errors.Is(err, common.ErrorNotFound):
		return &Result{StatusCode: http.StatusOK}
	default:
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return unexpectedResult()
	}
}

// provisionFederated creates the account for a first-time federated login.
// The provider's client ID stands in for a password so the stored record
// keeps the shape of a local one. Losing the creation race to a concurrent
// login is fine: the winner's account is fetched and used instead.
func (s *AuthService) provisionFederated(ctx context.Context, identity *google.Identity, clientID string) (*models.Account, bool, error) {
	firstName, lastName := splitDisplayName(identity.Name)

	encrypted, err := s.cipher.Encrypt(clientID)
	if err != nil {
		return nil, false, err
	}

	account := &models.Account{
		Email:         identity.Email,
		FirstName:     firstName,
		LastName:      lastName,
		Password:      encrypted,
		AuthType:      models.AuthTypeFederated,
		AgreedOnTerms: true,
	}

	created, err := s.repo.Create(ctx, account)
	if err == nil {
		return created, true, nil
	}
	if errors.Is(err, common.ErrorAlreadyExists) {
		winner, findErr := s.repo.FindByEmail(ctx, identity.Email)
		return winner, false, findErr
	}
	return nil, false, err
}

func (s *AuthService) loginResult(ctx context.Context, account *models.Account, msg messages.Code) *Result {
	token, err := auth.GenerateToken(account.Email, account.IsAdmin, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err.Error())
		return unexpectedResult()
	}

	view := account.View()
	view.AccessToken = token
	return &Result{User: view, Message: msg, StatusCode: http.StatusOK}
}

// splitDisplayName splits a federated display name on whitespace: the first
// token becomes the first name, the remaining tokens (joined) the last name.
// Single-token names get an empty last name, empty names yield both empty.
func splitDisplayName(name string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func unexpectedResult() *Result {
	return &Result{Message: messages.Unexpected, StatusCode: http.StatusInternalServerError}
}

func invalidCredentialsResult() *Result {
	return &Result{Message: messages.InvalidCredentials, StatusCode: http.StatusUnauthorized}
}
