package config

import (
	"flag"
	"io"

	"github.com/landchain/landchain/internal/flagx"
)

func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the LandChain server")
	fs.DurationVar(&cfg.Timeout, "t", cfg.Timeout, "request timeout")

	return fs.Parse(args)
}
