package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"bot-brawl/server/internal/app"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the server config YAML")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Options{ConfigPath: configPath}); err != nil {
		log.Fatalf("%v", err)
	}
}
