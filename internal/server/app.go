// Package server initializes and runs the API server: it opens the
// database and the keyed store, runs migrations, wires the services and
// the HTTP surface, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/higherpolynomia/backend/internal/logging"
	"github.com/higherpolynomia/backend/internal/server/config"
	"github.com/higherpolynomia/backend/internal/server/httpapi"
	"github.com/higherpolynomia/backend/internal/server/mail"
	"github.com/higherpolynomia/backend/internal/server/otp"
	"github.com/higherpolynomia/backend/internal/server/repositories/repomanager"
	"github.com/higherpolynomia/backend/internal/server/services"
	"github.com/higherpolynomia/backend/internal/server/storage"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	handler http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}

	if err := manager.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	otpStore := otp.NewRedisStore(redisClient)
	mailer := mail.NewResendSender(cfg.EmailAPIKey, cfg.EmailSender)
	fileStore := storage.NewS3Store(cfg)

	accountService := services.NewAccountService(db, manager, otpStore, mailer, logger, cfg)
	courseService := services.NewCourseService(db, manager, fileStore, logger, cfg)
	playlistService := services.NewPlaylistService(db, manager)
	videoService := services.NewVideoService(db, manager, fileStore, logger, cfg)
	doubtService := services.NewDoubtService(db, manager, mailer, logger)

	handler := httpapi.NewRouter(&httpapi.Handlers{
		Accounts:  httpapi.NewAccountHandler(accountService),
		Courses:   httpapi.NewCourseHandler(courseService),
		Playlists: httpapi.NewPlaylistHandler(playlistService),
		Videos:    httpapi.NewVideoHandler(videoService),
		Doubts:    httpapi.NewDoubtHandler(doubtService),
		Verifier:  accountService,
	}, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		redis:   redisClient,
		handler: handler,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled or
// a termination signal arrives, then drains in-flight requests.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	server := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting HTTP server", "addr", app.config.EndpointAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}

	if err := app.redis.Close(); err != nil {
		app.logger.Error(shutdownCtx, "redis close error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}

	return nil
}
