package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZameerHP/clipscript/internal/app"
	"github.com/ZameerHP/clipscript/internal/cli"
	"github.com/ZameerHP/clipscript/pkg/config"
	"github.com/ZameerHP/clipscript/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Logs go to stderr so command output stays clean.
	logg := logger.New(logger.Options{ServiceName: "studio", Output: os.Stderr})

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	open := func(ctx context.Context) (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		logg = logger.New(logger.Options{
			ServiceName: "studio",
			Level:       logger.ParseLevel(cfg.App.LogLevel),
			WarnStack:   cfg.App.LogWarnStack,
			Output:      os.Stderr,
		})
		return app.New(ctx, cfg, logg)
	}

	code := cli.Execute(ctx, open, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
