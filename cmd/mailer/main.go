package main

import (
	"context"
	"log"
	"os"

	"github.com/landchain/landchain/internal/buildinfo"
	"github.com/landchain/landchain/internal/mailer"
	"github.com/landchain/landchain/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := mailer.Main(context.Background(), cfg); err != nil {
		log.Fatalf("%v", err)
	}

}
