package main

import (
	"context"
	"fmt"
	"time"

	"github.com/AmonKats-dev/action-log-app/config"
	"github.com/AmonKats-dev/action-log-app/internal/api"
	"github.com/AmonKats-dev/action-log-app/internal/helper"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the HTTP API (migrates on start)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "port",
				Usage:       "HTTP port",
				Sources:     cli.EnvVars("SERVER_PORT"),
				Value:       cfg.ServerPort,
				Destination: &cfg.ServerPort,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.Validate(); err != nil {
				return goerr.Wrap(err, "invalid configuration")
			}
			return api.StartServer(ctx, *cfg)
		},
	}
}

func cmdMigrate(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create tables and seed the default roles",
		Action: func(ctx context.Context, c *cli.Command) error {
			if cfg.DatabaseDSN == "" {
				return goerr.New("DATABASE_DSN is required")
			}
			db, err := api.OpenDatabase(*cfg)
			if err != nil {
				return err
			}
			if err := api.Migrate(ctx, db); err != nil {
				return err
			}
			logging.From(ctx).Info("migration successful")
			return nil
		},
	}
}

func cmdNotifier(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "notifier",
		Usage: "Consume action log events and store notifications",
		Action: func(ctx context.Context, c *cli.Command) error {
			if cfg.DatabaseDSN == "" {
				return goerr.New("DATABASE_DSN is required")
			}
			return api.StartNotifier(ctx, *cfg)
		},
	}
}

func cmdToken(cfg *config.Config) *cli.Command {
	var userID int64
	var ttl time.Duration

	return &cli.Command{
		Name:  "token",
		Usage: "Issue an access token for an existing user (development)",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "user-id",
				Usage:       "User ID to issue the token for",
				Required:    true,
				Destination: &userID,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "Token lifetime",
				Value:       24 * time.Hour,
				Destination: &ttl,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.Validate(); err != nil {
				return goerr.Wrap(err, "invalid configuration")
			}
			if userID <= 0 {
				return goerr.New("user-id must be positive", goerr.V("user_id", userID))
			}

			db, err := api.OpenDatabase(*cfg)
			if err != nil {
				return err
			}
			user, err := repository.NewUserRepository(db).FindByID(ctx, uint(userID))
			if err != nil {
				return err
			}

			auth := helper.SetupAuth(cfg.AccessSecret)
			auth.TTL = ttl
			token, err := auth.GenerateToken(int(user.ID), user.Email)
			if err != nil {
				return goerr.Wrap(err, "failed to generate token", goerr.V("user_id", user.ID))
			}

			fmt.Println(token)
			return nil
		},
	}
}
