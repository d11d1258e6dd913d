package main

import (
	"context"
	"os"

	"github.com/AmonKats-dev/action-log-app/config"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	if err := run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	//load configuration
	cfg := config.LoadConfig()

	app := &cli.Command{
		Name:    "action-log",
		Usage:   "Action log API, notifier worker and admin tools",
		Version: version,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			logging.SetDefault(logger)
			logger.Debug("configuration loaded", "config", cfg)
			return logging.With(ctx, logger), nil
		},
		Commands: []*cli.Command{
			cmdServe(&cfg),
			cmdMigrate(&cfg),
			cmdNotifier(&cfg),
			cmdToken(&cfg),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}
	return nil
}
