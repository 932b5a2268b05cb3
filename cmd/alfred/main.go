package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/FlameInTheDark/alfred/internal/config"
	"github.com/FlameInTheDark/alfred/internal/gcal"
)

func main() {
	cmd := &cli.Command{
		Name:        "alfred",
		Description: "Personal Discord assistant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"cfg"},
				Usage:   "config file path",
				Value:   "./config.yaml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "auth",
				Usage: "authorize Google Calendar access and save the token file",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := loadConfig(c.String("config"))
					oc, err := gcal.OAuthConfig(cfg.Calendar.Credentials)
					if err != nil {
						return err
					}
					err = gcal.Authorize(ctx, oc, cfg.Calendar.TokenFile, func(url string) {
						fmt.Printf("Open this link in your browser to grant calendar access:\n\n%s\n\n", url)
					})
					if err != nil {
						return err
					}
					slog.Info("Token saved", slog.String("path", cfg.Calendar.TokenFile))
					return nil
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := loadConfig(c.String("config"))
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads the config file when it exists, otherwise the environment.
func loadConfig(path string) config.Config {
	var cfg config.Config
	if _, err := os.Stat(path); err == nil {
		cfg = config.NewConfig(path)
	} else {
		cfg = config.FromEnv()
	}
	slog.SetDefault(newLogger(cfg.Log))
	return cfg
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
