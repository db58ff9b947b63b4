// internal/app/system/discord/resolver.go
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/clanboard/internal/app/features/birthday"
	"github.com/dalemusser/clanboard/internal/app/features/board"
)

// NewDisplayNameResolver resolves user ids to the display names shown on
// the board. The gateway state cache answers most lookups; cache misses
// fall through to the REST API. Users who left the guild resolve to
// (_, false) and get pruned by the renderer.
func NewDisplayNameResolver(session *discordgo.Session, guildID string) board.Resolver {
	return board.ResolverFunc(func(userID string) (string, bool) {
		m, err := session.State.Member(guildID, userID)
		if err != nil || m == nil {
			m, err = session.GuildMember(guildID, userID)
		}
		if err != nil || m == nil || m.User == nil {
			return "", false
		}
		return displayName(m), true
	})
}

// SelfAvatarURL returns a late-binding supplier of the bot's own avatar
// URL, used as the embed thumbnail on the board and help messages. The
// session user is unknown until the gateway is ready, so callers get a
// func instead of a string; it yields "" until then. discordgo falls
// back to the default avatar when none is set.
func SelfAvatarURL(session *discordgo.Session) func() string {
	return func() string {
		if u := session.State.User; u != nil {
			return u.AvatarURL("")
		}
		return ""
	}
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// memberResolver resolves birthday celebrants. Unlike the board
// resolver, it always hits the REST API so the avatar is fresh.
type memberResolver struct {
	session *discordgo.Session
	guildID string
}

// NewMemberResolver creates the birthday celebrant resolver.
func NewMemberResolver(session *discordgo.Session, guildID string) birthday.Resolver {
	return &memberResolver{session: session, guildID: guildID}
}

func (r *memberResolver) Member(ctx context.Context, userID string) (birthday.Member, error) {
	m, err := r.session.GuildMember(r.guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return birthday.Member{}, wrapErr(err)
	}
	if m.User == nil {
		return birthday.Member{}, board.ErrNotFound
	}
	return birthday.Member{
		DisplayName: displayName(m),
		Mention:     m.User.Mention(),
		AvatarURL:   m.User.AvatarURL("256"),
	}, nil
}

// channelPoster posts birthday celebrations into one channel.
type channelPoster struct {
	session   *discordgo.Session
	channelID string
}

// NewChannelPoster creates a poster bound to channelID.
func NewChannelPoster(session *discordgo.Session, channelID string) birthday.Poster {
	return &channelPoster{session: session, channelID: channelID}
}

func (p *channelPoster) PostEmbed(ctx context.Context, doc board.Document) error {
	_, err := p.session.ChannelMessageSendEmbed(p.channelID, embedFromDocument(doc), discordgo.WithContext(ctx))
	return wrapErr(err)
}

func (p *channelPoster) PostText(ctx context.Context, content string) error {
	_, err := p.session.ChannelMessageSend(p.channelID, content, discordgo.WithContext(ctx))
	return wrapErr(err)
}
