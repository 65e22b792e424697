// Package server wires the portal together: configuration, telemetry, the
// PostgreSQL-backed services, the JSON API and the gRPC health endpoint,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/server/config"
	"github.com/dmitrijs2005/rpportal/internal/server/httpserver"
	"github.com/dmitrijs2005/rpportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rpportal/internal/server/services"
	"github.com/dmitrijs2005/rpportal/internal/telemetry"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/rpportal/internal/server/grpc"
)

// sessionPurgeInterval is how often expired sessions are deleted.
const sessionPurgeInterval = time.Hour

type App struct {
	config             *config.Config
	logger             logging.Logger
	db                 *sql.DB
	accountService     *services.AccountService
	applicationService *services.ApplicationService
	shutdownTelemetry  func(context.Context) error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	shutdown, err := telemetry.Setup(ctx, telemetry.ServiceName, c.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return &App{
		config:             c,
		logger:             logger,
		db:                 db,
		accountService:     services.NewAccountService(db, rm, c),
		applicationService: services.NewApplicationService(db, rm),
		shutdownTelemetry:  shutdown,
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
	s := httpserver.NewServer(app.config, app.logger, app.accountService, app.applicationService, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// purgeSessions deletes expired sessions until ctx ends.
func (app *App) purgeSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.accountService.PurgeExpiredSessions(ctx)
			if err != nil {
				app.logger.Warn(ctx, "session purge failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired sessions purged", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.purgeSessions(ctx)
	}()

	wg.Wait()

	app.close()
}

func (app *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := app.shutdownTelemetry(ctx); err != nil {
		app.logger.Warn(ctx, "telemetry shutdown", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
