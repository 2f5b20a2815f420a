package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/landchain/landchain/internal/logging"
	"github.com/landchain/landchain/internal/server/config"
	"github.com/landchain/landchain/internal/server/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

func TestNewApp_RejectsRelayLoop(t *testing.T) {
	c := testConfig()
	c.MailerBackend = "AMQP"

	_, err := NewApp(context.Background(), c, logging.Discard())
	require.ErrorIs(t, err, errRelayLoop)
}

func TestNewApp_UnknownBackend(t *testing.T) {
	c := testConfig()
	c.MailerBackend = "fax"

	_, err := NewApp(context.Background(), c, logging.Discard())
	require.Error(t, err)
}

func TestNewApp_DialFailure(t *testing.T) {
	old := dialAMQP
	t.Cleanup(func() { dialAMQP = old })

	var dialed string
	dialAMQP = func(url string) (*notify.AMQPClient, error) {
		dialed = url
		return nil, errors.New("connection refused")
	}

	c := testConfig()
	c.AMQPURL = "amqp://broker:5672/"

	_, err := NewApp(context.Background(), c, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amqp dial error")
	assert.Equal(t, "amqp://broker:5672/", dialed)
}
