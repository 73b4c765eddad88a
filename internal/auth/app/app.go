package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/clinicore/clinicore/internal/auth/http"
	"github.com/clinicore/clinicore/internal/auth/service"
	"github.com/clinicore/clinicore/internal/auth/store"
	"github.com/clinicore/clinicore/internal/auth/store/drivers/sqlite"
	"github.com/clinicore/clinicore/pkg/cryptox"
	"github.com/clinicore/clinicore/pkg/httpx"
	"github.com/clinicore/clinicore/pkg/jwtx"
	"github.com/clinicore/clinicore/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	keyManager *jwtx.KeyManager

	tokenService        *service.TokenService
	registerService     *service.RegisterService
	userService         *service.UserService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	applyRateLimitOverrides(app.cfg, app.logger)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := app.initSigningKeys()
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keyManager = keyManager

	app.initServices()

	if err := app.seedAdmin(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

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
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// initDatabase opens the sqlite store and applies migrations.
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

// initSigningKeys builds the key manager. Ephemeral mode invalidates all
// outstanding tokens on restart; persistent mode keeps the key on disk.
func (app *Application) initSigningKeys() (*jwtx.KeyManager, error) {
	if app.cfg.KeyStorageMode == "persistent" {
		app.logger.Info("using persistent signing key", "path", app.cfg.SigningKeyFile)
		return jwtx.NewPersistentKeyManager(app.cfg.SigningKeyFile, app.cfg.Issuer)
	}
	app.logger.Info("using ephemeral signing key")
	return jwtx.NewEphemeralKeyManager(app.cfg.Issuer)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	accessTTL := app.cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	refreshTTL := app.cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}

	app.tokenService = &service.TokenService{
		KeyManager: app.keyManager,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}

	app.registerService = &service.RegisterService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// seedAdmin creates the initial admin account when configured and the store
// is empty. An already-seeded store is not an error.
func (app *Application) seedAdmin() error {
	if app.cfg.AdminUsername == "" && app.cfg.AdminEmail == "" && app.cfg.AdminPassword == "" {
		return nil
	}

	ctx := slogx.WithContext(context.Background(), app.logger)
	_, err := app.bootstrapService.EnsureAdmin(ctx, service.AdminSeed{
		Username: app.cfg.AdminUsername,
		Email:    app.cfg.AdminEmail,
		Password: app.cfg.AdminPassword,
	})
	if err != nil {
		if errors.Is(err, service.ErrBootstrapAlready) {
			app.logger.Debug("admin seed skipped, users already exist")
			return nil
		}
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.TokenService = app.tokenService
	router.RegisterService = app.registerService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// applyRateLimitOverrides adjusts the shared rate limit profiles from
// config. Zero values leave the defaults alone.
func applyRateLimitOverrides(cfg Config, logger *slog.Logger) {
	if cfg.RateLimitStrictRequests > 0 {
		httpx.StrictLimit.RequestsPerWindow = cfg.RateLimitStrictRequests
	}
	if cfg.RateLimitStrictBurst > 0 {
		httpx.StrictLimit.Burst = cfg.RateLimitStrictBurst
	}
	if cfg.RateLimitModerateRequests > 0 {
		httpx.ModerateLimit.RequestsPerWindow = cfg.RateLimitModerateRequests
	}
	if cfg.RateLimitModerateBurst > 0 {
		httpx.ModerateLimit.Burst = cfg.RateLimitModerateBurst
	}

	if cfg.RateLimitStrictRequests > 0 || cfg.RateLimitModerateRequests > 0 {
		logger.Info("rate limit overrides applied",
			"strict_requests", httpx.StrictLimit.RequestsPerWindow,
			"moderate_requests", httpx.ModerateLimit.RequestsPerWindow,
		)
	}
}
