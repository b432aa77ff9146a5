package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nusadigital/agency-site/app"
	"github.com/nusadigital/agency-site/config"
	"github.com/nusadigital/agency-site/utils"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}

// loadConfig reads the environment and opens the log files. Console output
// is on for every CLI command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := utils.InitLogger(cfg.LogDir, true); err != nil {
		return nil, err
	}
	return cfg, nil
}
