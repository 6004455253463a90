package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/covenhall/arcana/internal/auth/authz"
	httpapi "github.com/covenhall/arcana/internal/auth/http"
	"github.com/covenhall/arcana/internal/auth/mailer"
	"github.com/covenhall/arcana/internal/auth/service"
	"github.com/covenhall/arcana/internal/auth/store"
	"github.com/covenhall/arcana/internal/auth/store/drivers/sqlite"
	"github.com/covenhall/arcana/pkg/cryptox"
	"github.com/covenhall/arcana/pkg/jwtx"
	"github.com/covenhall/arcana/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	signer   *jwtx.Signer
	verifier *jwtx.Verifier

	// Services
	tokenService        *service.TokenService
	verificationService *service.VerificationService
	sessionService      *service.SessionService
	accountService      *service.AccountService
	clientService       *service.ClientService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "arcana-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for secret and code hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, verifier, err := InitSigningKey(app.cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing key: %w", err)
	}
	app.signer = signer
	app.verifier = verifier

	app.initServices()
	app.initHTTP()

	if err := app.seedAdminClient(context.Background()); err != nil {
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
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

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.New(app.cfg.DatabaseFile)
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Verifier:   app.verifier,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		DefaultTTL: app.cfg.ClientTokenTTL,
	}

	app.sessionService = &service.SessionService{
		Store:       app.db,
		SessionTTL:  app.cfg.SessionTTL,
		RememberTTL: app.cfg.RememberTTL,
	}

	app.verificationService = &service.VerificationService{
		Store:          app.db,
		Mailer:         mailer.LogMailer{},
		CodeTTL:        app.cfg.CodeTTL,
		ResendCooldown: app.cfg.ResendCooldown,
		MaxAttempts:    app.cfg.MaxAttempts,
	}

	app.accountService = &service.AccountService{
		Store:        app.db,
		Verification: app.verificationService,
		Sessions:     app.sessionService,
	}

	app.clientService = &service.ClientService{
		Store:           app.db,
		DefaultTokenTTL: app.cfg.ClientTokenTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.sessionService,
		app.verificationService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	builder := &authz.Builder{
		Tokens:   app.tokenService,
		Sessions: app.sessionService,
	}

	router := httpapi.NewRouter(BuildVersion, app.db, builder, app.logger)
	router.TokenService = app.tokenService
	router.AccountService = app.accountService
	router.SessionService = app.sessionService
	router.ClientService = app.clientService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// seedAdminClient provisions the first machine client when the clients
// table is empty, so a fresh deployment has a credential that can reach
// the administrative endpoints. The secret is logged exactly once; it
// cannot be recovered later, only regenerated.
func (app *Application) seedAdminClient(ctx context.Context) error {
	empty, err := app.db.Clients().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing clients: %w", err)
	}
	if !empty {
		return nil
	}

	client, secret, err := app.clientService.CreateClient(
		ctx,
		"arcana bootstrap admin",
		[]string{httpapi.ScopeAuth, httpapi.ScopeAdmin},
		0,    // use the service default token lifetime
		true, // protected: cannot be deleted through the API
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin client: %w", err)
	}

	app.logger.Warn("seeded bootstrap admin client; store this secret now, it will not be shown again",
		"client_id", client.ID,
		"client_secret", secret,
	)
	return nil
}
