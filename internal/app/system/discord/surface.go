// internal/app/system/discord/surface.go
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/clanboard/internal/app/features/board"
)

// channelSurface publishes the board into one Discord channel.
type channelSurface struct {
	session   *discordgo.Session
	channelID string
}

// BoardSurfaces wraps each configured channel as a publishing surface.
func BoardSurfaces(session *discordgo.Session, channelIDs []string) []board.Surface {
	surfaces := make([]board.Surface, 0, len(channelIDs))
	for _, id := range channelIDs {
		surfaces = append(surfaces, &channelSurface{session: session, channelID: id})
	}
	return surfaces
}

func (c *channelSurface) ID() string { return c.channelID }

func (c *channelSurface) Permissions(ctx context.Context) (board.Permissions, error) {
	self := c.session.State.User
	if self == nil {
		return board.Permissions{}, board.ErrForbidden
	}
	bits, err := c.session.UserChannelPermissions(self.ID, c.channelID, discordgo.WithContext(ctx))
	if err != nil {
		return board.Permissions{}, wrapErr(err)
	}
	return permissionsFromBits(bits), nil
}

func permissionsFromBits(bits int64) board.Permissions {
	return board.Permissions{
		Send:    bits&discordgo.PermissionSendMessages != 0,
		Embed:   bits&discordgo.PermissionEmbedLinks != 0,
		History: bits&discordgo.PermissionReadMessageHistory != 0,
	}
}

func (c *channelSurface) Send(ctx context.Context, doc board.Document) (string, error) {
	msg, err := c.session.ChannelMessageSendEmbed(c.channelID, embedFromDocument(doc), discordgo.WithContext(ctx))
	if err != nil {
		return "", wrapErr(err)
	}
	return msg.ID, nil
}

func (c *channelSurface) Edit(ctx context.Context, messageID string, doc board.Document) error {
	_, err := c.session.ChannelMessageEditEmbed(c.channelID, messageID, embedFromDocument(doc), discordgo.WithContext(ctx))
	return wrapErr(err)
}

func (c *channelSurface) Fetch(ctx context.Context, messageID string) error {
	_, err := c.session.ChannelMessage(c.channelID, messageID, discordgo.WithContext(ctx))
	return wrapErr(err)
}

func (c *channelSurface) History(ctx context.Context, limit int) ([]board.HistoryMessage, error) {
	msgs, err := c.session.ChannelMessages(c.channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err)
	}

	var selfID string
	if self := c.session.State.User; self != nil {
		selfID = self.ID
	}

	// ChannelMessages returns newest first, matching the publisher's
	// expectation.
	out := make([]board.HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		h := board.HistoryMessage{ID: m.ID}
		if m.Author != nil {
			h.FromSelf = m.Author.ID == selfID
		}
		if len(m.Embeds) > 0 {
			h.EmbedTitle = m.Embeds[0].Title
		}
		out = append(out, h)
	}
	return out, nil
}
