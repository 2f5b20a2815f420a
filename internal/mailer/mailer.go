// Package mailer is the standalone process that drains the email queue
// filled by a server running with the "amqp" mail backend and delivers
// each message through SMTP, SES or the log.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/landchain/landchain/internal/logging"
	"github.com/landchain/landchain/internal/server/config"
	"github.com/landchain/landchain/internal/server/notify"
)

var errRelayLoop = errors.New("mailer backend cannot be amqp")

var dialAMQP = notify.DialAMQP

type App struct {
	config   *config.Config
	logger   logging.Logger
	client   *notify.AMQPClient
	sender   notify.Sender
	consumer *notify.Consumer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if strings.EqualFold(c.MailerBackend, notify.BackendAMQP) {
		return nil, errRelayLoop
	}

	sender, err := notify.NewSender(ctx, c.MailerBackend, c, logger)
	if err != nil {
		return nil, fmt.Errorf("mail init error: %w", err)
	}

	client, err := dialAMQP(c.AMQPURL)
	if err != nil {
		closeSender(sender)
		return nil, fmt.Errorf("amqp dial error: %w", err)
	}

	logger = logger.With("module", "mailer")
	return &App{
		config:   c,
		logger:   logger,
		client:   client,
		sender:   sender,
		consumer: notify.NewConsumer(client, c.AMQPQueue, sender, logger),
	}, nil
}

// Run consumes until a termination signal arrives, ctx is done or the
// broker connection drops.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()
	defer app.close()

	app.logger.Info(ctx, "Starting mailer...", "queue", app.config.AMQPQueue, "backend", app.config.MailerBackend)
	return app.consumer.Run(ctx)
}

func (app *App) close() {
	closeSender(app.sender)
	if err := app.client.Close(); err != nil {
		app.logger.Error(context.Background(), "amqp close", "error", err)
	}
}

func closeSender(s notify.Sender) {
	if c, ok := s.(io.Closer); ok {
		_ = c.Close()
	}
}

// Main is the body of cmd/mailer.
func Main(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
