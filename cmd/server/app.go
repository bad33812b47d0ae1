package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/asmamir/task-manager-api/internal/api"
	"github.com/asmamir/task-manager-api/internal/api/middleware"
	"github.com/asmamir/task-manager-api/internal/config"
	"github.com/asmamir/task-manager-api/internal/events"
	"github.com/asmamir/task-manager-api/internal/platform/avatar"
	"github.com/asmamir/task-manager-api/internal/platform/postgres"
	"github.com/asmamir/task-manager-api/internal/platform/sendgrid"
	"github.com/asmamir/task-manager-api/internal/service"
	"github.com/asmamir/task-manager-api/internal/service/auth"
)

// application holds the fully wired server: stores, services, the HTTP
// router, and everything Run needs to serve and shut down cleanly.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	router http.Handler
}

// newApplication wires every component of the server from configuration
// and the open database handle.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	verifier := auth.NewBcryptVerifier()

	emitter := events.NewInMemoryEventEmitter(logger)
	if cfg.Mail.SendGridAPIKey != "" {
		mailer := sendgrid.NewMailer(cfg.Mail, logger)
		emitter.RegisterHandler(sendgrid.NewEventHandler(mailer, logger))
		logger.Info("transactional email enabled", "from", cfg.Mail.FromAddress)
	} else {
		logger.Info("no sendgrid api key configured, transactional email disabled")
	}

	accountService, err := service.NewAccountService(
		db, userStore, taskStore, jwtService, verifier, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	userHandler := api.NewUserHandler(accountService, userStore, avatar.NewProcessor())
	taskHandler := api.NewTaskHandler(taskStore)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, userStore)

	router := setupRouter(userHandler, taskHandler, authMiddleware)

	return &application{
		cfg:    cfg,
		logger: logger,
		db:     db,
		router: router,
	}, nil
}

// Run serves HTTP until the process receives an interrupt, then shuts
// down gracefully and closes the database.
func (app *application) Run(ctx context.Context) error {
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}()

	return startHTTPServer(ctx, app.cfg.Server, app.router, app.logger)
}
