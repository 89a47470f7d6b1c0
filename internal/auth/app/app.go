package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/silverbirch/portal/internal/auth/http"
	"github.com/silverbirch/portal/internal/auth/notify"
	"github.com/silverbirch/portal/internal/auth/service"
	"github.com/silverbirch/portal/internal/auth/store"
	"github.com/silverbirch/portal/internal/auth/store/drivers/sqlite"
	"github.com/silverbirch/portal/pkg/jwtx"
	"github.com/silverbirch/portal/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the portal auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	tokens   *jwtx.Tokens
	notifier notify.Notifier

	// Services
	credentialService   *service.CredentialService
	userService         *service.UserService
	resetService        *service.ResetService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "portal-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initTokens(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initNotifier(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("portal auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initTokens configures the session token signer. Without a configured
// secret a random one is generated, which invalidates sessions on restart.
func (app *Application) initTokens() error {
	secret := []byte(app.cfg.JWTSecret)
	if len(secret) == 0 {
		random := make([]byte, 32)
		if _, err := rand.Read(random); err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = []byte(hex.EncodeToString(random))
		app.logger.Warn("PORTAL_JWT_SECRET not set, generated a random secret; sessions will not survive restarts")
	}

	app.tokens = &jwtx.Tokens{
		Secret: secret,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.AccessTokenTTL,
	}
	return nil
}

// initNotifier builds the delivery chain: SES when configured, with the log
// notifier as the terminal fallback.
func (app *Application) initNotifier() error {
	logNotifier := &notify.LogNotifier{Logger: app.logger}

	if app.cfg.SESFromEmail == "" {
		app.logger.Info("email delivery disabled: SES_FROM_EMAIL not configured")
		app.notifier = notify.NewChain(logNotifier)
		return nil
	}

	ses, err := notify.NewSESNotifier(context.Background(), app.cfg.SESRegion, app.cfg.SESFromEmail, app.cfg.SESFromName)
	if err != nil {
		return fmt.Errorf("failed to initialize ses notifier: %w", err)
	}

	app.logger.Info("email delivery enabled", "from", app.cfg.SESFromEmail, "region", app.cfg.SESRegion)
	app.notifier = notify.NewChain(ses, logNotifier)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.credentialService = &service.CredentialService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}
	app.resetService = &service.ResetService{
		Store:    app.db,
		Validity: app.cfg.ResetTokenValidity,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.resetService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		app.cfg.BaseURL,
		BuildVersion,
		app.db,
		app.notifier,
		app.logger,
	)

	router.Credentials = app.credentialService
	router.Users = app.userService
	router.Reset = app.resetService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
