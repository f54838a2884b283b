// Package httpapi exposes the auth service over HTTP. Routing and JSON
// binding live here; every decision with failure semantics belongs to the
// services layer, which hands back ready-to-write envelopes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gmeladze/identity-service/internal/logging"
	"github.com/gmeladze/identity-service/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address   string
	auth      *services.AuthService
	jwtSecret []byte
	logger    logging.Logger
}

func NewServer(address string, logger logging.Logger, auth *services.AuthService, secretKey string) *Server {
	return &Server{
		address:   address,
		auth:      auth,
		jwtSecret: []byte(secretKey),
		logger:    logger.With("module", "http_server"),
	}
}

// Router builds the gin engine with all auth routes mounted.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1/auth")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/googleAuth", s.googleAuth)
	api.POST("/checkIfEmailIsAvailable", s.emailAvailable)
	api.POST("/me", s.requireAuth, s.me)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
