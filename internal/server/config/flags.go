package config

import (
	"flag"
	"io"

	"github.com/landchain/landchain/internal/flagx"
)

var knownFlags = []string{"-a", "-g", "-r", "-d", "-s", "-t", "-l", "-m", "-q"}

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC health bind address, empty to disable
//	-r string     database driver: sqlite or postgres
//	-d string     database DSN (sqlite file path or postgres URL)
//	-s string     session signing secret
//	-t duration   session lifetime (e.g., "12h")
//	-l string     log level
//	-m string     mail backend: log, smtp, ses or amqp
//	-q string     AMQP broker URL
//
// Flags not listed here are filtered out with flagx.FilterArgs so that
// -c / -config does not trip the parser.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to serve HTTP on")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "address and port for the gRPC health service")
	fs.StringVar(&config.DatabaseDriver, "r", config.DatabaseDriver, "database driver (sqlite|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session secret key")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.MailBackend, "m", config.MailBackend, "mail backend (log|smtp|ses|amqp)")
	fs.StringVar(&config.AMQPURL, "q", config.AMQPURL, "AMQP broker URL")

	return fs.Parse(args)
}
