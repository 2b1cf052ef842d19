package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/vaughan-dsouza/postboard/internal/config"
	"github.com/vaughan-dsouza/postboard/internal/db"
	"github.com/vaughan-dsouza/postboard/internal/handlers"
	"github.com/vaughan-dsouza/postboard/internal/middleware"
)

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Usage:   "HTTP listen port",
			EnvVars: []string{"POSTBOARD_PORT", "PORT"},
			Value:   "4000",
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Post store backend: mongo, postgres or memory",
			EnvVars: []string{"POSTBOARD_STORE"},
			Value:   string(db.BackendMongo),
		},
		&cli.StringFlag{
			Name:    "mongo-uri",
			Usage:   "MongoDB connection URI",
			EnvVars: []string{"POSTBOARD_MONGO_URI"},
			Value:   "mongodb://localhost:27017/",
		},
		&cli.StringFlag{
			Name:    "mongo-database",
			Usage:   "MongoDB database holding the posts collection",
			EnvVars: []string{"POSTBOARD_MONGO_DATABASE"},
			Value:   "fastapi",
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "PostgreSQL DSN for the postgres backend",
			EnvVars: []string{"POSTBOARD_DATABASE_URL", "DATABASE_URL"},
		},
		&cli.IntFlag{
			Name:    "db-max-open",
			Usage:   "PostgreSQL max open connections",
			EnvVars: []string{"POSTBOARD_DB_MAX_OPEN", "DB_MAX_OPEN"},
			Value:   25,
		},
		&cli.IntFlag{
			Name:    "db-max-idle",
			Usage:   "PostgreSQL max idle connections",
			EnvVars: []string{"POSTBOARD_DB_MAX_IDLE", "DB_MAX_IDLE"},
			Value:   25,
		},
		&cli.DurationFlag{
			Name:    "db-max-lifetime",
			Usage:   "PostgreSQL connection max lifetime",
			EnvVars: []string{"POSTBOARD_DB_MAX_LIFETIME"},
			Value:   5 * time.Minute,
		},
		&cli.StringFlag{
			Name:    "auth-mode",
			Usage:   "Token check for the secured list: static, bcrypt or jwt",
			EnvVars: []string{"POSTBOARD_AUTH_MODE"},
			Value:   config.AuthStatic,
		},
		&cli.StringFlag{
			Name:    "auth-secret",
			Usage:   "Shared secret for --auth-mode=static",
			EnvVars: []string{"POSTBOARD_AUTH_SECRET"},
			Value:   config.DefaultSharedSecret,
		},
		&cli.StringFlag{
			Name:    "auth-secret-hash",
			Usage:   "bcrypt hash of the shared secret for --auth-mode=bcrypt",
			EnvVars: []string{"POSTBOARD_AUTH_SECRET_HASH"},
		},
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "HS256 signing key for --auth-mode=jwt",
			EnvVars: []string{"POSTBOARD_JWT_SECRET", "ACCESS_SECRET"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"POSTBOARD_LOG_LEVEL"},
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format: text or json",
			EnvVars: []string{"POSTBOARD_LOG_FORMAT"},
			Value:   "text",
		},
		&cli.DurationFlag{
			Name:    "shutdown-timeout",
			Usage:   "Grace period for in-flight requests on shutdown",
			EnvVars: []string{"POSTBOARD_SHUTDOWN_TIMEOUT"},
			Value:   5 * time.Second,
		},
	}
}

func configFromContext(ctx *cli.Context) config.Config {
	return config.Config{
		Port:            ctx.String("port"),
		Store:           ctx.String("store"),
		MongoURI:        ctx.String("mongo-uri"),
		MongoDatabase:   ctx.String("mongo-database"),
		DatabaseURL:     ctx.String("database-url"),
		DBMaxOpen:       ctx.Int("db-max-open"),
		DBMaxIdle:       ctx.Int("db-max-idle"),
		DBMaxLifetime:   ctx.Duration("db-max-lifetime"),
		AuthMode:        ctx.String("auth-mode"),
		AuthSecret:      ctx.String("auth-secret"),
		AuthSecretHash:  ctx.String("auth-secret-hash"),
		JWTSecret:       ctx.String("jwt-secret"),
		LogLevel:        ctx.String("log-level"),
		LogFormat:       ctx.String("log-format"),
		ShutdownTimeout: ctx.Duration("shutdown-timeout"),
	}
}

// tokenValidator builds the validator selected by cfg.AuthMode.
func tokenValidator(cfg config.Config) (middleware.TokenValidator, error) {
	switch cfg.AuthMode {
	case config.AuthStatic:
		return middleware.StaticValidator{Secret: cfg.AuthSecret}, nil
	case config.AuthBcrypt:
		return middleware.BcryptValidator{Hash: []byte(cfg.AuthSecretHash)}, nil
	case config.AuthJWT:
		return middleware.JWTValidator{Secret: cfg.JWTSecret}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the posts API",
		Description: `Connects to the configured post store and starts the HTTP API.

The store connection is opened once and pooled for the life of the process.`,
		Flags: serveFlags(),
		Action: func(ctx *cli.Context) error {
			cfg := configFromContext(ctx)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := cfg.ConfigureLogging(); err != nil {
				return err
			}

			validator, err := tokenValidator(cfg)
			if err != nil {
				return err
			}

			return serve(ctx.Context, cfg, validator)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, validator middleware.TokenValidator) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"store":     cfg.Store,
		"auth_mode": cfg.AuthMode,
	}).Info("connecting to store")

	store, err := db.Connect(ctx, cfg.StoreOptions())
	if err != nil {
		log.WithField("error", err).Error("store connection failed")
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.WithField("error", err).Warn("closing store")
		}
	}()

	h := handlers.NewHandler(store)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Router(validator),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
