package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-api/internal/config"
	"github.com/vancomm/minesweeper-api/internal/database"
	"github.com/vancomm/minesweeper-api/internal/middleware"
	"github.com/vancomm/minesweeper-api/internal/repository"
)

type App struct {
	logger *slog.Logger
	config *config.Config
	router *mux.Router
	repo   repository.Repository
}

func New(logger *slog.Logger, cfg *config.Config) *App {
	return &App{
		logger: logger,
		config: cfg,
		router: mux.NewRouter(),
	}
}

// OpenRepository migrates and opens the storage backend named by cfg.
func OpenRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	migrator, err := database.Migrate(cfg)
	if err != nil {
		return nil, err
	}
	migrator.Close()

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.New(pool), nil
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repository.NewSQLite(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.logger),
		middleware.Cors(),
	)
}

func (a *App) Start(ctx context.Context) error {
	repo, err := OpenRepository(ctx, a.config)
	if err != nil {
		return fmt.Errorf("unable to open storage: %w", err)
	}
	defer repo.Close()

	a.repo = repo
	a.loadRoutes()

	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", a.config.Addr))
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to listen and serve: %w", err)
	})
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down", slog.Duration("timeout", a.config.ShutdownTimeout.Duration))
		sCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout.Duration)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
