// Package server initializes and runs the identity service. It opens the
// database, applies migrations, wires the auth service and starts the HTTP
// server with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gmeladze/identity-service/internal/cryptox"
	"github.com/gmeladze/identity-service/internal/logging"
	"github.com/gmeladze/identity-service/internal/server/config"
	"github.com/gmeladze/identity-service/internal/server/db"
	"github.com/gmeladze/identity-service/internal/server/google"
	"github.com/gmeladze/identity-service/internal/server/httpapi"
	"github.com/gmeladze/identity-service/internal/server/repositories/accounts"
	"github.com/gmeladze/identity-service/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService *services.AuthService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	conn, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	cipher, err := cryptox.NewCipher(cfg.CipherKey)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	var verifier google.IdentityVerifier
	if cfg.GoogleClientID == "" {
		logger.Warn(ctx, "google client id not configured, federated login disabled")
		verifier = google.Disabled(logger)
	} else {
		verifier, err = google.NewClient(ctx, cfg.GoogleClientID, logger)
		if err != nil {
			return nil, fmt.Errorf("google verifier init error: %w", err)
		}
	}

	repo := accounts.NewPostgresRepository(conn)
	authService := services.NewAuthService(repo, cipher, verifier, cfg, logger)

	return &App{config: cfg, logger: logger, authService: authService}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.config.JWTSecret)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
