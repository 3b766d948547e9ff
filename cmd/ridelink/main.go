package main

import (
	"context"
	"flag"
	"os"

	"github.com/zhandos-t/ridelink/config"
	"github.com/zhandos-t/ridelink/internal/app"
	"github.com/zhandos-t/ridelink/pkg/logger"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config", "config.yaml", "Path to the config yaml file")
)

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	ctx := context.Background()
	log := logger.New("ridelink", logger.LevelDebug)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		os.Exit(1)
	}

	log = logger.New(cfg.ServiceName, cfg.LogLevel)

	application, err := app.New(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err := application.Start(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
