package main

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

func (a *App) createCommands() {
	integrations := &[]discordgo.ApplicationIntegrationType{
		discordgo.ApplicationIntegrationGuildInstall,
		discordgo.ApplicationIntegrationUserInstall,
	}
	contexts := &[]discordgo.InteractionContextType{
		discordgo.InteractionContextGuild,
		discordgo.InteractionContextBotDM,
		discordgo.InteractionContextPrivateChannel,
	}
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "alfred",
			Description: "Ask Alfred to do something",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "What do you need?",
					Required:    true,
				},
			},
			IntegrationTypes: integrations,
			Contexts:         contexts,
		},
		{
			Name:             "features",
			Description:      "List what Alfred can do",
			IntegrationTypes: integrations,
			Contexts:         contexts,
		},
	}

	for _, command := range commands {
		_, err := a.s.ApplicationCommandCreate(a.s.State.User.ID, "", command)
		if err != nil {
			slog.Error("Unable to create command", slog.String("command", command.Name), slog.String("error", err.Error()))
		}
	}
}

func (a *App) registerHandlers() {
	a.handlers = map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"alfred":   a.alfredHandler,
		"features": a.featuresHandler,
	}

	a.s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if h, ok := a.handlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})
	a.s.AddHandler(a.messageHandler)
}
