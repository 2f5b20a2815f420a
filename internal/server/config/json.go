package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/landchain/landchain/internal/flagx"
	"github.com/landchain/landchain/internal/timex"
)

// JsonConfig mirrors Config for JSON files. SessionTTL is a timex.Duration
// so both "24h" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	GRPCHealthAddr     string         `json:"grpc_health_addr"`
	DatabaseDriver     string         `json:"database_driver"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	SessionTTL         timex.Duration `json:"session_ttl"`
	CookieSecure       bool           `json:"cookie_secure"`
	UniqueIDAttempts   int            `json:"unique_id_attempts"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`
	MailBackend        string         `json:"mail_backend"`
	MailerBackend      string         `json:"mailer_backend"`
	MailFrom           string         `json:"mail_from"`
	SMTPHost           string         `json:"smtp_host"`
	SMTPPort           int            `json:"smtp_port"`
	SMTPUsername       string         `json:"smtp_username"`
	SMTPPassword       string         `json:"smtp_password"`
	SESRegion          string         `json:"ses_region"`
	SESEndpoint        string         `json:"ses_endpoint"`
	SESAccessKeyID     string         `json:"ses_access_key_id"`
	SESSecretAccessKey string         `json:"ses_secret_access_key"`
	AMQPURL            string         `json:"amqp_url"`
	AMQPQueue          string         `json:"amqp_queue"`
	NotifyWorkers      int            `json:"notify_workers"`
	NotifyBuffer       int            `json:"notify_buffer"`
}

// parseJson loads the file named by -c / -config in args, if any. Keys
// missing from the file leave the current values untouched.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.apply(config)
	return nil
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:           c.HTTPAddr,
		GRPCHealthAddr:     c.GRPCHealthAddr,
		DatabaseDriver:     c.DatabaseDriver,
		DatabaseDSN:        c.DatabaseDSN,
		SecretKey:          c.SecretKey,
		SessionTTL:         timex.Duration{Duration: c.SessionTTL},
		CookieSecure:       c.CookieSecure,
		UniqueIDAttempts:   c.UniqueIDAttempts,
		LogLevel:           c.LogLevel,
		LogFormat:          c.LogFormat,
		MailBackend:        c.MailBackend,
		MailerBackend:      c.MailerBackend,
		MailFrom:           c.MailFrom,
		SMTPHost:           c.SMTPHost,
		SMTPPort:           c.SMTPPort,
		SMTPUsername:       c.SMTPUsername,
		SMTPPassword:       c.SMTPPassword,
		SESRegion:          c.SESRegion,
		SESEndpoint:        c.SESEndpoint,
		SESAccessKeyID:     c.SESAccessKeyID,
		SESSecretAccessKey: c.SESSecretAccessKey,
		AMQPURL:            c.AMQPURL,
		AMQPQueue:          c.AMQPQueue,
		NotifyWorkers:      c.NotifyWorkers,
		NotifyBuffer:       c.NotifyBuffer,
	}
}

func (j *JsonConfig) apply(c *Config) {
	c.HTTPAddr = j.HTTPAddr
	c.GRPCHealthAddr = j.GRPCHealthAddr
	c.DatabaseDriver = j.DatabaseDriver
	c.DatabaseDSN = j.DatabaseDSN
	c.SecretKey = j.SecretKey
	c.SessionTTL = j.SessionTTL.Duration
	c.CookieSecure = j.CookieSecure
	c.UniqueIDAttempts = j.UniqueIDAttempts
	c.LogLevel = j.LogLevel
	c.LogFormat = j.LogFormat
	c.MailBackend = j.MailBackend
	c.MailerBackend = j.MailerBackend
	c.MailFrom = j.MailFrom
	c.SMTPHost = j.SMTPHost
	c.SMTPPort = j.SMTPPort
	c.SMTPUsername = j.SMTPUsername
	c.SMTPPassword = j.SMTPPassword
	c.SESRegion = j.SESRegion
	c.SESEndpoint = j.SESEndpoint
	c.SESAccessKeyID = j.SESAccessKeyID
	c.SESSecretAccessKey = j.SESSecretAccessKey
	c.AMQPURL = j.AMQPURL
	c.AMQPQueue = j.AMQPQueue
	c.NotifyWorkers = j.NotifyWorkers
	c.NotifyBuffer = j.NotifyBuffer
}
