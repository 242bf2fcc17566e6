package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/donmariogerlin/gerlin"
	"github.com/donmariogerlin/gerlin/views"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("GERLIN_CONFIG"), "path to the YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := gerlin.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := gerlin.NewLogger(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := gerlin.OpenServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	app, err := gerlin.New(cfg, views.Funcs(), svc, gerlin.WithLogger(logger))
	if err != nil {
		svc.Close()
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("close services")
		}
	}()

	logger.Info().Str("version", version).Str("url", cfg.URL).Msg("starting gerlin")
	return app.Start(ctx)
}
