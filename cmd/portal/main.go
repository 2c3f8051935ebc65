package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Apurer/go-dog-portal/internal/app/portal"
)

func main() {
	if err := portal.LoadEnvFiles(); err != nil {
		log.Fatalf("failed to load env file: %v", err)
	}
	cfg, err := portal.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := portal.Run(ctx, cfg); err != nil {
		log.Fatalf("dog portal exited: %v", err)
	}
}
