package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/landchain/landchain/internal/flagx"
	"github.com/landchain/landchain/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeout
// accepts "10s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL string         `json:"server_url"`
	Timeout   timex.Duration `json:"timeout"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	jc := JsonConfig{ServerURL: cfg.ServerURL, Timeout: timex.Duration{Duration: cfg.Timeout}}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ServerURL = jc.ServerURL
	cfg.Timeout = jc.Timeout.Duration
	return nil
}
