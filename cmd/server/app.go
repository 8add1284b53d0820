package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tasktrove/taskboard-api/internal/config"
	"github.com/tasktrove/taskboard-api/internal/platform/postgres"
	"github.com/tasktrove/taskboard-api/internal/service"
	"github.com/tasktrove/taskboard-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	taskStore store.TaskStore
	userStore store.UserStore
	txRunner  store.TxRunner

	// Service interfaces
	taskService       service.TaskService
	userService       service.UserService
	assignmentService service.AssignmentService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger and
// database connection that must be established before application
// initialization.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dayLoc *time.Location,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.txRunner = store.NewTxRunner(db)

	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, app.userStore, dayLoc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.userService, err = service.NewUserService(app.userStore, app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.assignmentService, err = service.NewAssignmentService(
		app.txRunner,
		app.taskStore,
		app.userStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
