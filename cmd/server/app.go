package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/learning-tracker/internal/api"
	"github.com/phrazzld/learning-tracker/internal/config"
	"github.com/phrazzld/learning-tracker/internal/events"
	"github.com/phrazzld/learning-tracker/internal/platform/postgres"
	"github.com/phrazzld/learning-tracker/internal/service"
	"github.com/phrazzld/learning-tracker/internal/service/auth"
	"github.com/phrazzld/learning-tracker/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore       store.UserStore
	categoryStore   store.CategoryStore
	tagStore        store.TagStore
	itemStore       store.LearningItemStore
	moduleStore     store.ModuleStore
	dependencyStore store.DependencyStore

	// Services
	jwtService        auth.JWTService
	itemService       service.LearningItemService
	moduleService     service.ModuleService
	dependencyService service.DependencyService
	categoryService   service.CategoryService
	tagService        service.TagService

	eventEmitter events.EventEmitter
}

// newApplication wires stores, services and the event emitter on top of an
// established database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, logger)
	app.tagStore = postgres.NewPostgresTagStore(db, logger)
	app.itemStore = postgres.NewPostgresLearningItemStore(db, logger)
	app.moduleStore = postgres.NewPostgresModuleStore(db, logger)
	app.dependencyStore = postgres.NewPostgresDependencyStore(db, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))
	app.eventEmitter = emitter

	tx := store.NewDBTransactor(db)

	if app.dependencyService, err = service.NewDependencyService(
		tx, app.itemStore, app.dependencyStore, app.eventEmitter, logger,
	); err != nil {
		return nil, fmt.Errorf("failed to create dependency service: %w", err)
	}
	if app.moduleService, err = service.NewModuleService(
		tx, app.itemStore, app.moduleStore, app.eventEmitter, logger,
	); err != nil {
		return nil, fmt.Errorf("failed to create module service: %w", err)
	}
	if app.itemService, err = service.NewLearningItemService(
		tx, app.itemStore, app.moduleStore, app.categoryStore, app.tagStore, app.eventEmitter, logger,
	); err != nil {
		return nil, fmt.Errorf("failed to create learning item service: %w", err)
	}
	if app.categoryService, err = service.NewCategoryService(app.categoryStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create category service: %w", err)
	}
	if app.tagService, err = service.NewTagService(app.tagStore, app.itemStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create tag service: %w", err)
	}

	logger.Info("application dependencies initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))
	return app, nil
}

// handlers builds the HTTP handlers for the API routes.
func (app *application) handlers() *api.Handlers {
	return &api.Handlers{
		Items:        api.NewItemHandler(app.itemService, app.logger),
		Modules:      api.NewModuleHandler(app.moduleService, app.logger),
		Dependencies: api.NewDependencyHandler(app.dependencyService, app.logger),
		Categories:   api.NewCategoryHandler(app.categoryService, app.logger),
		Tags:         api.NewTagHandler(app.tagService, app.logger),
	}
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
			return
		}
		app.logger.Info("database connection closed")
	}
}
