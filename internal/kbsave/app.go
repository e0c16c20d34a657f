package kbsave

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type app struct {
	config Config

	db *sql.DB

	httpRouter *httprouter.Router
	upgrader   websocket.Upgrader
}

type App interface {
	http.Handler

	RunUntilSignal() error
	Close() error
}

func NewApp(config Config) (App, error) {
	return newApp(config)
}

func newApp(config Config) (*app, error) {
	app := app{
		config: config,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	if err := app.initDB(config.CachePath); err != nil {
		return nil, err
	}
	app.initHTTP()

	return &app, nil
}

// RunUntilSignal serves HTTP, and auto-scans when configured, until SIGINT or
// SIGTERM.
func (app *app) RunUntilSignal() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.run(ctx)
}

func (app *app) run(ctx context.Context) error {
	server := &http.Server{
		Addr:    app.config.Address,
		Handler: app,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Str("address", app.config.Address).Str("version", app.config.Version).
			Str("buildTime", app.config.BuildTime).Msg("[run] listening")

		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("[run] shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if app.config.AutoscanInterval > 0 && app.config.SavesRoot != "" {
		scanner := newAutoScanner(app, app.config.AutoscanInterval)
		group.Go(func() error {
			return scanner.Run(ctx)
		})
	}

	return group.Wait()
}

func (app *app) Close() error {
	return app.closeDB()
}
