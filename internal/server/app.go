// Package server initializes and runs the campus events API server.
// It opens the database, applies migrations, wires services and serves HTTP
// until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/campusevents/internal/dbx"
	"github.com/dmitrijs2005/campusevents/internal/logging"
	"github.com/dmitrijs2005/campusevents/internal/server/config"
	"github.com/dmitrijs2005/campusevents/internal/server/httpserver"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campusevents/internal/server/services"
)

// seams for tests
var (
	openDB         = dbx.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config              *config.Config
	logger              logging.Logger
	db                  *sql.DB
	userService         *services.UserService
	eventService        *services.EventService
	registrationService *services.RegistrationService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := openDB(ctx, "pgx", c.DatabaseDSN, c.DBMaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &App{
		config:              c,
		logger:              logger,
		db:                  db,
		userService:         services.NewUserService(db, rm, c),
		eventService:        services.NewEventService(db, rm),
		registrationService: services.NewRegistrationService(db, rm),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {

	s := httpserver.NewHTTPServer(httpserver.Options{
		Address:          app.config.EndpointAddrHTTP,
		CORSAllowOrigins: app.config.CORSAllowOrigins,
		ShutdownTimeout:  app.config.ShutdownTimeout,
	}, app.logger, app.userService, app.eventService, app.registrationService, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database pool. It returns the error that stopped the HTTP
// server, if any.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")

	return runErr
}
