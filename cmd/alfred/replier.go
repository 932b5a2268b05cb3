package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"
)

// channelReplier uploads files to the channel a message came from.
type channelReplier struct {
	s         *discordgo.Session
	channelID string
}

func (r channelReplier) SendFile(ctx context.Context, name string, rd io.Reader) error {
	_, err := r.s.ChannelFileSend(r.channelID, name, rd, discordgo.WithContext(ctx))
	return err
}

// SendDM implements the scheduler's Sender.
func (a *App) SendDM(ctx context.Context, userID, text string) error {
	ch, err := a.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	return a.send(ctx, ch.ID, text)
}

func (a *App) send(ctx context.Context, channelID, text string) error {
	for _, chunk := range SplitMessage(text, messageLimit) {
		if _, err := a.s.ChannelMessageSend(channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return err
		}
	}
	return nil
}
