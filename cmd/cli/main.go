package main

import (
	"context"
	"log"
	"os"

	"github.com/landchain/landchain/internal/buildinfo"
	"github.com/landchain/landchain/internal/client/cli"
	"github.com/landchain/landchain/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
