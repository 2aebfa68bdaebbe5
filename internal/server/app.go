// Package server assembles the salaries service: it opens the database,
// applies migrations, builds the services and runs the HTTP API next to the
// gRPC health endpoint until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/salaries/internal/logging"
	"github.com/dmitrijs2005/salaries/internal/obs"
	"github.com/dmitrijs2005/salaries/internal/server/config"
	"github.com/dmitrijs2005/salaries/internal/server/httpapi"
	"github.com/dmitrijs2005/salaries/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/salaries/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/salaries/internal/server/grpc"
)

// Version is reported in traces; set at build time with -ldflags.
var Version = "dev"

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	salaryService  *services.SalaryService
	tracerShutdown obs.ShutdownFunc
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if logging.ParseLevel(c.LogLevel) != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	shutdown, err := obs.InitTracer(ctx, c.OTLPEndpoint, c.ServiceName, Version)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tracer init error: %w", err)
	}

	return &App{
		config:         c,
		logger:         logger.With("service", c.ServiceName),
		db:             db,
		userService:    services.NewUserService(db, rm, c),
		salaryService:  services.NewSalaryService(db, rm),
		tracerShutdown: shutdown,
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.salaryService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc, h *gs.HealthServer) {
	if err := h.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or one of the servers fails, then stops
// both servers and releases the tracer and the database pool.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	health := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger)
	health.SetServing(true)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc, health)
	}()

	<-ctx.Done()
	health.SetServing(false)

	wg.Wait()

	app.close()
}

func (app *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.tracerShutdown(ctx); err != nil {
		app.logger.Warn(ctx, "tracer shutdown", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
