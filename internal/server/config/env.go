package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "LANDCHAIN_"

// parseEnv overlays LANDCHAIN_* variables onto config. Values from
// dotenvFile are used only when the real environment does not set them.
// A missing dotenv file is not an error. environ replaces os.Environ when
// non-nil.
func parseEnv(config *Config, dotenvFile string, environ map[string]string) error {
	vars := map[string]string{}

	if dotenvFile != "" {
		fileVars, err := godotenv.Read(dotenvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", dotenvFile, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}

	if environ == nil {
		environ = make(map[string]string)
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				environ[k] = v
			}
		}
	}
	for k, v := range environ {
		vars[k] = v
	}

	if err := env.ParseWithOptions(config, env.Options{
		Prefix:      EnvPrefix,
		Environment: vars,
	}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
