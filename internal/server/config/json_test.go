package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "server.json", map[string]any{
		"http_addr":          "www.example:9000",
		"database_driver":    "postgres",
		"database_dsn":       "postgres://localhost/landchain",
		"secret_key":         "my_secret_key",
		"session_ttl":        "90m",
		"unique_id_attempts": 3,
		"mail_backend":       "ses",
		"ses_region":         "eu-west-1",
		"notify_buffer":      10,
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "postgres", cfg.DatabaseDriver)
		assert.Equal(t, "postgres://localhost/landchain", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
		assert.Equal(t, 3, cfg.UniqueIDAttempts)
		assert.Equal(t, "ses", cfg.MailBackend)
		assert.Equal(t, "eu-west-1", cfg.SESRegion)
		assert.Equal(t, 10, cfg.NotifyBuffer)

		assert.Equal(t, ":50051", cfg.GRPCHealthAddr, "keys absent from the file keep their value")
		assert.Equal(t, "email_jobs", cfg.AMQPQueue)
	})

	t.Run("short flag", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-c", path}))
		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		cfg := &Config{HTTPAddr: "defaults:1234", SessionTTL: 2 * time.Minute}
		require.NoError(t, parseJson(cfg, nil))

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, 2*time.Minute, cfg.SessionTTL)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Error(t, parseJson(cfg, []string{"-config", bad}))
	})
}
