package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/journal"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

const reapInterval = time.Minute

type App struct {
	logger   *slog.Logger
	router   *http.ServeMux
	addr     string
	sessions *session.Registry
	tokens   *config.SessionToken
	ws       *config.WebSocket
}

type Options struct {
	Addr    string
	IdleTTL time.Duration
	Tokens  *config.SessionToken
	WS      *config.WebSocket
	Journal session.Journal
	Clock   session.Clock
}

// New wires the service from explicit options. Use [FromEnv] to read them
// from the environment.
func New(logger *slog.Logger, opts Options) *App {
	if opts.Clock == nil {
		opts.Clock = session.SystemClock{}
	}

	app := &App{
		logger: logger,
		router: http.NewServeMux(),
		addr:   opts.Addr,
		sessions: session.NewRegistry(
			logger, createRand(), opts.Journal, opts.Clock, opts.IdleTTL,
		),
		tokens: opts.Tokens,
		ws:     opts.WS,
	}
	app.loadRoutes()

	return app
}

func FromEnv(logger *slog.Logger) (*App, error) {
	tokens, err := config.NewSessionToken()
	if err != nil {
		return nil, err
	}

	ws, err := config.NewWebSocket()
	if err != nil {
		return nil, err
	}

	idleTTL, err := config.IdleTTL()
	if err != nil {
		return nil, err
	}

	journalCfg, err := config.NewJournal()
	if err != nil {
		return nil, err
	}
	j, err := journal.Open(journalCfg)
	if err != nil {
		return nil, err
	}

	return New(logger, Options{
		Addr:    config.Addr(),
		IdleTTL: idleTTL,
		Tokens:  tokens,
		WS:      ws,
		Journal: j,
	}), nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Cors(),
		middleware.Logging(a.logger),
	)
}

func (a *App) Sessions() *session.Registry {
	return a.sessions
}

// Start serves until ctx is cancelled, then shuts the server down.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.addr,
		Handler: a.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", a.addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.sessions.Run(ctx, reapInterval)
	})

	g.Go(func() error {
		<-ctx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		a.logger.Info("shutting down")
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
