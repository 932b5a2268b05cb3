package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FlameInTheDark/alfred/internal/feature"
)

const replyTimeout = 10 * time.Minute

func (a *App) messageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	if m.GuildID != "" && !mentioned(m.Mentions, s.State.User.ID) {
		return
	}
	if !allowed(a.cfg.Whitelist, m.Author.ID) {
		slog.Warn("Ignoring message from user not on the whitelist", slog.String("user", m.Author.ID))
		return
	}
	text := cleanContent(m.Content, s.State.User.ID)
	if text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		slog.Warn("Unable to send typing indicator", slog.String("error", err.Error()))
	}

	resp := a.assistant.Ask(ctx, &feature.Request{
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		Text:      text,
		Replier:   channelReplier{s: s, channelID: m.ChannelID},
	})
	if err := a.send(ctx, m.ChannelID, resp); err != nil {
		slog.Error("Unable to send response", slog.String("error", err.Error()))
	}
}

func mentioned(users []*discordgo.User, id string) bool {
	for _, u := range users {
		if u != nil && u.ID == id {
			return true
		}
	}
	return false
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func (a *App) alfredHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 || strings.TrimSpace(options[0].StringValue()) == "" {
		slog.Warn("No message provided")
		_ = a.errorResponse(s, i, "Please tell me what you need.")
		return
	}
	user := interactionUser(i)
	if user == nil || !allowed(a.cfg.Whitelist, user.ID) {
		_ = a.errorResponse(s, i, "Sorry, I only work for my owner.")
		return
	}

	err := a.thinkingResponse(s, i)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	message := options[0].StringValue()
	start := time.Now()
	resp := a.assistant.Ask(ctx, &feature.Request{
		UserID:    user.ID,
		Username:  user.Username,
		ChannelID: i.ChannelID,
		Content:   message,
		Replier:   channelReplier{s: s, channelID: i.ChannelID},
	})
	end := time.Now()

	respEdit := &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{
			{
				Author: &discordgo.MessageEmbedAuthor{
					Name: CropText(message, 240),
				},
				Description: CropText(resp, 4096),
				Footer: &discordgo.MessageEmbedFooter{
					Text: fmt.Sprintf("Response time: %.2fs", end.Sub(start).Seconds()),
				},
			},
		},
	}

	_, err = s.InteractionResponseEdit(i.Interaction, respEdit)
	if err != nil {
		slog.Error("Unable to send response", slog.String("error", err.Error()))
		return
	}
}

func (a *App) featuresHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	fields := make([]*discordgo.MessageEmbedField, 0, a.assistant.Registry.Len())
	for _, f := range a.assistant.Registry.List() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: f.Name(), Value: f.Description()})
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Author: &discordgo.MessageEmbedAuthor{Name: "Features"},
					Fields: fields,
				},
			},
		},
	})
	if err != nil {
		slog.Error("Unable to send response", slog.String("error", err.Error()))
	}
}

func (a *App) thinkingResponse(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsLoading,
			Embeds: []*discordgo.MessageEmbed{
				{
					Author: &discordgo.MessageEmbedAuthor{
						Name: "Thinking...",
					},
				},
			},
		}}
	err := s.InteractionRespond(i.Interaction, resp)
	if err != nil {
		slog.Error("Unable to send response", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (a *App) errorResponse(s *discordgo.Session, i *discordgo.InteractionCreate, text string) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{
				{
					Author: &discordgo.MessageEmbedAuthor{
						Name: "Error",
					},
					Description: text,
				},
			},
		}}
	err := s.InteractionRespond(i.Interaction, resp)
	if err != nil {
		slog.Error("Unable to send response", slog.String("error", err.Error()))
		return err
	}
	return nil
}
