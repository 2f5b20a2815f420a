package repomanager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/landchain/landchain/internal/logging"
	"github.com/pressly/goose/v3"
)

// gooseLogger routes goose's printf-style output into a logging.Logger.
type gooseLogger struct {
	logger logging.Logger
	exit   func(int)
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.logger.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf keeps goose's contract of not returning.
func (g gooseLogger) Fatalf(format string, v ...any) {
	g.logger.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	g.exit(1)
}

// SetLogger sends migration output to logger instead of the standard log
// package. goose keeps one process-wide logger.
func SetLogger(logger logging.Logger) {
	goose.SetLogger(gooseLogger{logger: logger.With("module", "migrations"), exit: os.Exit})
}
