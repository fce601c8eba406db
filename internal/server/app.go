// Package server initializes and runs the ledger server: storage, session
// reaper, HTTP endpoint, and graceful shutdown on OS signals.
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
	"sync"
	"syscall"
	"time"

	"github.com/finledger/finledger/internal/logging"
	"github.com/finledger/finledger/internal/server/config"
	"github.com/finledger/finledger/internal/server/httpapi"
	"github.com/finledger/finledger/internal/server/repositories/repomanager"
	"github.com/finledger/finledger/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
	reaper *services.Reaper
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	permissions := services.NewPermissionService(db, m)
	server := httpapi.NewServer(logger, httpapi.Services{
		Users:       services.NewUserService(db, m),
		Permissions: permissions,
		Categories:  services.NewCategoryService(db, m, permissions),
		Payments:    services.NewPaymentService(db, m, permissions),
		Splits:      services.NewSplitService(db, m, permissions),
		Overview:    services.NewOverviewService(db, m),
	})
	reaper := services.NewReaper(db, m, logger, cfg.ReapInterval, cfg.SessionTTL)

	return &App{config: cfg, logger: logger, db: db, server: server, reaper: reaper}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	httpServer := &http.Server{
		Addr:              app.config.EndpointAddr,
		Handler:           app.server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.reaper.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server failed", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	wg.Wait()

	app.logger.Info(ctx, "server stopped")
}
