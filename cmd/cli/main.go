package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/okorolev/cipherdrop/internal/buildinfo"
	"github.com/okorolev/cipherdrop/internal/cli"
	"github.com/okorolev/cipherdrop/internal/config"
	"github.com/okorolev/cipherdrop/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.NewDefault(os.Stderr, slog.LevelInfo)

	app, err := cli.NewApp(ctx, cfg, log, os.Stdout)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Error(ctx, "command failed", "error", err)
		os.Exit(1)
	}
}
