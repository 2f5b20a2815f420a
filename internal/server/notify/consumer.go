package notify

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/landchain/landchain/internal/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains relayed messages from a queue and delivers them with a
// real Sender.
type Consumer struct {
	client *AMQPClient
	queue  string
	sender Sender
	logger logging.Logger
}

func NewConsumer(client *AMQPClient, queue string, sender Sender, logger logging.Logger) *Consumer {
	return &Consumer{client: client, queue: queue, sender: sender, logger: logger}
}

// Run consumes until ctx is done or the broker closes the delivery channel.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.client.CreateQueue(c.queue); err != nil {
		return err
	}
	deliveries, err := c.client.Consume(c.queue)
	if err != nil {
		return err
	}

	c.logger.Info(ctx, "consuming", "queue", c.queue)
	return c.process(ctx, deliveries)
}

func (c *Consumer) process(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

// handle acks everything it could decode, delivered or not; sending is
// best effort and a poison message must not loop forever.
func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil || msg.To == "" {
		c.logger.Warn(ctx, "dropping malformed message", "error", err)
		_ = d.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := c.sender.Send(sendCtx, msg); err != nil {
		c.logger.Warn(ctx, "email delivery failed", "to", msg.To, "error", err)
	} else {
		c.logger.Info(ctx, "email delivered", "to", msg.To)
	}
	_ = d.Ack(false)
}
