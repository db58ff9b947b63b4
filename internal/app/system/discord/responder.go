// internal/app/system/discord/responder.go
package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/clanboard/internal/app/features/board"
)

// messageResponder answers a prefix command in the channel it arrived in.
type messageResponder struct {
	session   *discordgo.Session
	channelID string
}

func (r *messageResponder) Reply(ctx context.Context, content string) (string, error) {
	msg, err := r.session.ChannelMessageSend(r.channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", wrapErr(err)
	}
	return msg.ID, nil
}

func (r *messageResponder) ReplyEmbed(ctx context.Context, doc board.Document) (string, error) {
	msg, err := r.session.ChannelMessageSendEmbed(r.channelID, embedFromDocument(doc), discordgo.WithContext(ctx))
	if err != nil {
		return "", wrapErr(err)
	}
	return msg.ID, nil
}

func (r *messageResponder) Delete(ctx context.Context, messageID string) error {
	return deleteMessage(ctx, r.session, r.channelID, messageID)
}

// interactionResponder answers a slash invocation through the
// interaction response, then exposes the response message id so the
// handler's ephemeral deletion still applies.
type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

func (r *interactionResponder) Reply(ctx context.Context, content string) (string, error) {
	return r.respond(ctx, &discordgo.InteractionResponseData{Content: content})
}

func (r *interactionResponder) ReplyEmbed(ctx context.Context, doc board.Document) (string, error) {
	return r.respond(ctx, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embedFromDocument(doc)},
	})
}

func (r *interactionResponder) respond(ctx context.Context, data *discordgo.InteractionResponseData) (string, error) {
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", wrapErr(err)
	}

	// The acknowledgement is out. If the follow-up fetch fails we just
	// lose the scheduled deletion, not the reply.
	msg, err := r.session.InteractionResponse(r.interaction, discordgo.WithContext(ctx))
	if err != nil || msg == nil {
		return "", nil
	}
	return msg.ID, nil
}

func (r *interactionResponder) Delete(ctx context.Context, messageID string) error {
	return deleteMessage(ctx, r.session, r.interaction.ChannelID, messageID)
}

// deleteMessage removes a message, treating an already-gone message as
// success. Deleting an empty id is a no-op.
func deleteMessage(ctx context.Context, session *discordgo.Session, channelID, messageID string) error {
	if messageID == "" {
		return nil
	}
	err := wrapErr(session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)))
	if errors.Is(err, board.ErrNotFound) {
		return nil
	}
	return err
}
