package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/documind/documind/internal/auth"
	authpg "github.com/documind/documind/internal/auth/postgres"
	"github.com/documind/documind/internal/config"
	"github.com/documind/documind/internal/httpapi"
	"github.com/documind/documind/internal/logging"
	"github.com/documind/documind/internal/observability"
	"github.com/documind/documind/internal/store"
)

const (
	shutdownTimeout        = 10 * time.Second
	sessionCleanupInterval = time.Hour
)

// newServeCmd creates the serve subcommand with all flags configured.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the authentication API server",
		Long: `Start the HTTP API server, apply pending database migrations, and
serve metrics and health probes on a separate listener.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	defaults := config.Default()
	cmd.Flags().String("server.addr", defaults.Server.Addr, "API listen address")
	cmd.Flags().String("server.metrics_addr", defaults.Server.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log.format", defaults.Log.Format, "log format (json or text)")
	cmd.Flags().String("environment", defaults.Environment, "deployment environment (development or production)")

	return cmd
}

// runServe starts the API server and blocks until shutdown.
func runServe(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("documind", version, cfg.Log.Format)
	logger := slog.Default()

	logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"metrics_addr", cfg.Server.MetricsAddr,
		"environment", cfg.Environment,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Schema first: the server must not come up against missing tables.
	if err := applyMigrations(cfg.Database.URL, logger); err != nil {
		return err
	}

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	codec, err := auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	sessionRepo := authpg.NewSessionRepository(pool)
	service, err := auth.NewServiceWithLogger(
		authpg.NewUserRepository(pool),
		sessionRepo,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		codec,
		logger,
	)
	if err != nil {
		return err
	}

	// Observability listener: readiness tracks database connectivity.
	obsServer := observability.NewServer(cfg.Server.MetricsAddr, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	})

	var obsErrCh <-chan error
	if cfg.Server.MetricsAddr != "" {
		obsErrCh, err = obsServer.Start()
		if err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if stopErr := obsServer.Stop(stopCtx); stopErr != nil {
				logger.Warn("observability server stop failed", "error", stopErr.Error())
			}
		}()
	}

	handler, err := httpapi.NewHandler(service, codec, obsServer.Metrics(), logger)
	if err != nil {
		return err
	}

	limiterCfg := httpapi.DefaultRateLimiterConfig()
	limiterCfg.Rate = rate.Limit(float64(cfg.RateLimit.PerMinute) / 60.0)
	limiterCfg.Burst = cfg.RateLimit.Burst
	limiter := httpapi.NewRateLimiter(limiterCfg)
	defer limiter.Stop()

	apiServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Router(limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	apiErrCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", "addr", cfg.Server.Addr)
		if serveErr := apiServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			apiErrCh <- serveErr
		}
		close(apiErrCh)
	}()

	go cleanupSessions(ctx, sessionRepo, obsServer.Metrics(), logger)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr, ok := <-apiErrCh:
		if ok && serveErr != nil {
			return oops.Code("SERVER_FAILED").Wrap(serveErr)
		}
	case obsErr, ok := <-obsErrCh:
		if ok && obsErr != nil {
			return oops.Code("OBSERVABILITY_FAILED").Wrap(obsErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}

	logger.Info("server stopped")
	return nil
}

// applyMigrations brings the schema up to date before serving.
func applyMigrations(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("migrator close failed", "error", closeErr.Error())
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}

// cleanupSessions periodically deletes expired session rows. Expired rows
// never authenticate either way; this keeps the table from growing without
// bound.
func cleanupSessions(ctx context.Context, sessions auth.SessionRepository, metrics *observability.Metrics, logger *slog.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("session cleanup failed", "error", err.Error())
				continue
			}
			if n > 0 {
				metrics.RecordSessionsDeleted(n)
				logger.Info("expired sessions deleted", "count", n)
			}
		}
	}
}
