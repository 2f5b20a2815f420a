package notify

import (
	"context"

	"github.com/landchain/landchain/internal/logging"
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender only logs what would have been sent. It is the development
// backend.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info(ctx, "email", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
