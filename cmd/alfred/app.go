package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"github.com/FlameInTheDark/alfred/internal/assistant"
	"github.com/FlameInTheDark/alfred/internal/config"
	"github.com/FlameInTheDark/alfred/internal/scheduler"
	"github.com/FlameInTheDark/alfred/internal/server"
)

type App struct {
	s   *discordgo.Session
	cfg config.Config

	assistant *assistant.Assistant

	handlers map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord bot token is required")
	}
	asst, err := assistant.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentDirectMessages | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	return &App{
		s:         s,
		cfg:       cfg,
		assistant: asst,
	}, nil
}

// Run connects to Discord and serves until ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.assistant.Close(); err != nil {
			slog.Warn("Unable to release resources", slog.String("error", err.Error()))
		}
	}()
	a.registerHandlers()
	err := a.s.Open()
	if err != nil {
		return err
	}
	defer a.s.Close()

	user, err := a.s.User("@me")
	if err != nil {
		return err
	}
	slog.Info("Logged in", slog.String("username", user.Username), slog.String("id", user.ID))
	a.createCommands()

	group, ctx := errgroup.WithContext(ctx)
	if a.cfg.HTTP.Addr != "" {
		srv := server.New(a.cfg.HTTP.Addr)
		group.Go(func() error {
			return srv.Run(ctx)
		})
	}
	if a.cfg.Agenda.Schedule != "" {
		sch, err := scheduler.New(a.cfg.Agenda.Schedule, a.cfg.Agenda.UserID, a.cfg.Calendar.Location(), a.assistant.Calendar, a)
		if err != nil {
			return err
		}
		group.Go(func() error {
			return sch.Run(ctx)
		})
	}

	slog.Info("Up and running", slog.Int("features", a.assistant.Registry.Len()))
	group.Go(func() error {
		<-ctx.Done()
		return nil
	})
	return group.Wait()
}
