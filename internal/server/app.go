// Package server wires the LandChain web application: storage, password
// hashing, sessions, the notification queue, the HTTP API and the gRPC
// health endpoint. It also owns graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/landchain/landchain/internal/logging"
	"github.com/landchain/landchain/internal/server/auth"
	"github.com/landchain/landchain/internal/server/config"
	"github.com/landchain/landchain/internal/server/httpapi"
	"github.com/landchain/landchain/internal/server/notify"
	"github.com/landchain/landchain/internal/server/repositories/repomanager"
	"github.com/landchain/landchain/internal/server/services"

	gs "github.com/landchain/landchain/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sender   notify.Sender
	queue    *notify.Queue
	accounts *services.AccountService
	sessions *services.SessionService
}

// NewApp opens the database, applies migrations and builds the services.
// The caller must Run the app or Close it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if c.SecretKey == config.DefaultSecretKey {
		logger.Warn(ctx, "session secret is the development default; set LANDCHAIN_SECRET_KEY")
	}

	repomanager.SetLogger(logger)

	db, rm, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	sender, err := notify.NewSender(ctx, c.MailBackend, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mail init error: %w", err)
	}

	queue := notify.NewQueue(sender, logger, c.NotifyWorkers, c.NotifyBuffer)
	hasher := auth.NewArgon2Hasher(nil)
	codec := auth.NewSessionCodec([]byte(c.SecretKey), c.SessionTTL)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		sender:   sender,
		queue:    queue,
		accounts: services.NewAccountService(db, rm, hasher, queue, logger, c),
		sessions: services.NewSessionService(codec, logger),
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

func (app *App) handler() *httpapi.Handler {
	return httpapi.NewHandler(app.accounts, app.sessions, app.logger, httpapi.CookieOptions{
		Secure: app.config.CookieSecure,
		TTL:    app.config.SessionTTL,
	})
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.handler().Routes(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCHealthAddr, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or a
// listener fails, then drains the notification queue and closes storage.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)
	app.queue.Start(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCHealthAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}

// Close flushes pending notifications and releases the sender and the
// database.
func (app *App) Close() {
	app.queue.Close()

	if c, ok := app.sender.(io.Closer); ok {
		if err := c.Close(); err != nil {
			app.logger.Error(context.Background(), "mail sender close", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close", "error", err)
	}
}
