package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nusadigital/agency-site/app"
	"github.com/nusadigital/agency-site/config"
	"github.com/nusadigital/agency-site/utils"
)

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogDir, !cfg.IsProduction()); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		utils.LogError("Failed to start: %v", err)
		log.Fatal("Failed to start:", err)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
