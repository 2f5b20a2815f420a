package main

import (
	"context"
	"log"
	"os"

	"github.com/landchain/landchain/internal/buildinfo"
	"github.com/landchain/landchain/internal/logging"
	"github.com/landchain/landchain/internal/server"
	"github.com/landchain/landchain/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
