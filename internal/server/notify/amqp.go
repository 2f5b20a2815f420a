package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the part of *amqp.Channel the client uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// dialAMQP is a seam for testing amqp.Dial.
var dialAMQP = func(url string) (*amqp.Connection, amqpChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	chn, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return conn, chn, nil
}

// AMQPClient holds one connection and one channel to the broker.
type AMQPClient struct {
	conn *amqp.Connection
	chn  amqpChannel
}

func DialAMQP(url string) (*AMQPClient, error) {
	conn, chn, err := dialAMQP(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	return &AMQPClient{conn: conn, chn: chn}, nil
}

func (c *AMQPClient) Close() error {
	if err := c.chn.Close(); err != nil {
		return err
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// CreateQueue declares a durable queue; declaring an existing one is a no-op.
func (c *AMQPClient) CreateQueue(name string) error {
	_, err := c.chn.QueueDeclare(name, true, false, false, false, nil)
	return err
}

// Publish sends a persistent JSON message to queue via the default exchange.
func (c *AMQPClient) Publish(ctx context.Context, queue string, body []byte) error {
	return c.chn.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume starts a manual-ack consumer on queue.
func (c *AMQPClient) Consume(queue string) (<-chan amqp.Delivery, error) {
	return c.chn.Consume(queue, "", false, false, false, false, nil)
}

// AMQPRelay is a Sender that hands messages to the mailer process through
// a queue instead of delivering them itself.
type AMQPRelay struct {
	client *AMQPClient
	queue  string
}

// NewAMQPRelay declares queue and returns a relay publishing to it.
func NewAMQPRelay(client *AMQPClient, queue string) (*AMQPRelay, error) {
	if err := client.CreateQueue(queue); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &AMQPRelay{client: client, queue: queue}, nil
}

func (r *AMQPRelay) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.queue, body); err != nil {
		return fmt.Errorf("publish to %s: %w", r.queue, err)
	}
	return nil
}

func (r *AMQPRelay) Close() error {
	return r.client.Close()
}
