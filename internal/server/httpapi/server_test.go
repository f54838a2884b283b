package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gmeladze/identity-service/internal/common"
	"github.com/gmeladze/identity-service/internal/cryptox"
	"github.com/gmeladze/identity-service/internal/logging"
	"github.com/gmeladze/identity-service/internal/server/auth"
	"github.com/gmeladze/identity-service/internal/server/config"
	"github.com/gmeladze/identity-service/internal/server/google"
	"github.com/gmeladze/identity-service/internal/server/models"
	"github.com/gmeladze/identity-service/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "http-test-secret"

type stubRepo struct {
	byEmail map[string]*models.Account
}

func (r *stubRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if _, ok := r.byEmail[a.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	a.ID = "acc-1"
	r.byEmail[a.Email] = a
	return a, nil
}

func (r *stubRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (r *stubRepo) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.byEmail[a.Email] = a
	return a, nil
}

type stubVerifier struct{}

func (stubVerifier) Verify(ctx context.Context, raw string) (*google.Identity, error) {
	return nil, common.ErrorIdentityVerification
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:             testSecret,
		CipherKey:             "http-test-cipher-key",
		TokenValidityDuration: time.Hour,
	}

	cipher, err := cryptox.NewCipher(cfg.CipherKey)
	require.NoError(t, err)

	encrypted, err := cipher.Encrypt("secret123")
	require.NoError(t, err)

	repo := &stubRepo{byEmail: map[string]*models.Account{
		"user@example.com": {
			ID:            "acc-1",
			Email:         "user@example.com",
			FirstName:     "Nino",
			LastName:      "Beridze",
			Password:      encrypted,
			AuthType:      models.AuthTypeLocal,
			AgreedOnTerms: true,
		},
	}}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := services.NewAuthService(repo, cipher, stubVerifier{}, cfg, logger)

	return NewServer(":0", logger, svc, cfg.JWTSecret).Router()
}

func doJSON(router *gin.Engine, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegister_MalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "/api/v1/auth/register", "{not json", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalidFormValues")
}

func TestLogin_SuccessEnvelope(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "/api/v1/auth/login", `{"email":"user@example.com","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "loginSuccess")
	assert.Contains(t, rec.Body.String(), "accessToken")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "/api/v1/auth/login", `{"email":"user@example.com","password":"wrong"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalidCredentials")
}

func TestMe_RequiresBearerToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "/api/v1/auth/me", `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	header := http.Header{}
	header.Set("Authorization", "Basic dXNlcjpwdw==")
	rec = doJSON(router, "/api/v1/auth/me", `{}`, header)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_WithValidToken(t *testing.T) {
	router := newTestRouter(t)

	token, err := auth.GenerateToken("user@example.com", false, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	rec := doJSON(router, "/api/v1/auth/me", `{}`, header)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user@example.com")
}

func TestMe_ExpiredToken(t *testing.T) {
	router := newTestRouter(t)

	token, err := auth.GenerateToken("user@example.com", false, []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	rec := doJSON(router, "/api/v1/auth/me", `{}`, header)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_TokenSignedWithDifferentKey(t *testing.T) {
	router := newTestRouter(t)

	token, err := auth.GenerateToken("user@example.com", false, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	rec := doJSON(router, "/api/v1/auth/me", `{}`, header)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleAuth_MissingFields(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "/api/v1/auth/googleAuth", `{"token":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmailAvailability(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "/api/v1/auth/checkIfEmailIsAvailable", `{"email":"free@example.com"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, "/api/v1/auth/checkIfEmailIsAvailable", `{"email":"user@example.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "emailAlreadyUsed")
}
