package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/landchain/landchain/internal/logging"
	"github.com/landchain/landchain/internal/server/config"
)

const (
	BackendLog  = "log"
	BackendSMTP = "smtp"
	BackendSES  = "ses"
	BackendAMQP = "amqp"
)

// NewSender builds the Sender for backend using the mail settings in cfg.
// Senders holding connections implement io.Closer.
func NewSender(ctx context.Context, backend string, cfg *config.Config, logger logging.Logger) (Sender, error) {
	switch strings.ToLower(backend) {
	case "", BackendLog:
		return NewLogSender(logger), nil

	case BackendSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}), nil

	case BackendSES:
		return NewSESSender(ctx, SESConfig{
			Region:          cfg.SESRegion,
			Endpoint:        cfg.SESEndpoint,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
			From:            cfg.MailFrom,
		})

	case BackendAMQP:
		client, err := DialAMQP(cfg.AMQPURL)
		if err != nil {
			return nil, err
		}
		relay, err := NewAMQPRelay(client, cfg.AMQPQueue)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return relay, nil
	}

	return nil, fmt.Errorf("unknown mail backend %q", backend)
}
