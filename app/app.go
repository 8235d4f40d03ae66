package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/messmate/messmate/config"
	"github.com/messmate/messmate/database"
	"github.com/messmate/messmate/handlers"
	"github.com/messmate/messmate/server"
	"github.com/messmate/messmate/services/identity"
	"github.com/messmate/messmate/services/jwt"
	"github.com/messmate/messmate/services/logging"
	"github.com/messmate/messmate/services/menu"
	"github.com/messmate/messmate/services/preference"
	"github.com/messmate/messmate/services/token"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type App struct {
	fx     *fx.App
	config *config.Config
	logger *logging.Service
	db     *gorm.DB
	server *server.Server
}

// Models lists everything the database layer auto-migrates.
func Models() []any {
	return []any{
		&identity.UserProfile{},
		&identity.UserRole{},
		&token.Token{},
		&menu.DailyMenu{},
		&preference.MealPreference{},
	}
}

// New assembles the application. Pass a nil config to load it from the
// environment.
func New(customConfig *config.Config) *App {
	app := &App{}

	app.fx = fx.New(
		config.NewProvider(customConfig),
		logging.Module,
		fx.Supply(database.WithModels(Models()...)),
		database.Module,
		jwt.Module,
		identity.Module,
		token.Module,
		menu.Module,
		preference.Module,
		handlers.Module,
		server.NewProvider(),
		fx.NopLogger,
		fx.Populate(&app.config, &app.logger, &app.db, &app.server),
	)

	return app
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	return a.fx.Stop(ctx)
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() {
	if err := a.Start(context.Background()); err != nil {
		log.Fatalf("failed to start application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	a.logger.Info("received shutdown signal, stopping gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.Stop(ctx); err != nil {
		a.logger.Errorf("failed to stop application gracefully: %v", err)
	}

	_ = a.logger.Sync()
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() *logging.Service {
	return a.logger
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Server() *server.Server {
	return a.server
}
