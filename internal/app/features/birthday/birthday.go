// Package birthday watches one channel for birthday-role mentions and
// posts a celebration embed for the first user mentioned alongside the
// role.
package birthday

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/clanboard/internal/app/features/board"
	"go.uber.org/zap"
)

// userMentionPattern matches <@123> and <@!123> user mentions. Role
// mentions (<@&123>) don't match, but a raw id equal to the role id is
// still filtered out explicitly below.
var userMentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

// Member is the resolved celebrant.
type Member struct {
	DisplayName string
	Mention     string
	AvatarURL   string
}

// Resolver looks up a community member by user id. Implemented by the
// platform adapter.
type Resolver interface {
	Member(ctx context.Context, userID string) (Member, error)
}

// Poster sends embeds into the birthday channel. Implemented by the
// platform adapter.
type Poster interface {
	PostEmbed(ctx context.Context, doc board.Document) error
	PostText(ctx context.Context, content string) error
}

// Watcher inspects messages in the configured channel and posts
// celebration embeds. Failures are logged, optionally apologized for
// in-channel, and never crash the watcher.
type Watcher struct {
	channelID string
	roleID    string
	resolver  Resolver
	poster    Poster
	now       func() time.Time
	logger    *zap.Logger
}

// New creates the watcher for one channel and role.
func New(channelID, roleID string, resolver Resolver, poster Poster, logger *zap.Logger) *Watcher {
	return &Watcher{
		channelID: channelID,
		roleID:    roleID,
		resolver:  resolver,
		poster:    poster,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// HandleMessage inspects one inbound message. Messages outside the
// birthday channel, without the role mention, or without a user mention
// are ignored.
func (w *Watcher) HandleMessage(ctx context.Context, channelID, content string) {
	if channelID != w.channelID {
		return
	}
	roleMention := fmt.Sprintf("<@&%s>", w.roleID)
	if !strings.Contains(content, roleMention) {
		return
	}

	userID := w.firstUserMention(content)
	if userID == "" {
		return
	}

	member, err := w.resolver.Member(ctx, userID)
	if err != nil {
		w.logger.Error("failed to resolve birthday celebrant",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := w.poster.PostText(ctx, "🎂 I couldn't find the birthday star — but happy birthday to them anyway! 🥳"); err != nil {
			w.logger.Error("failed to post birthday apology", zap.Error(err))
		}
		return
	}

	doc := celebrationDocument(member, w.now())
	if err := w.poster.PostEmbed(ctx, doc); err != nil {
		w.logger.Error("failed to post birthday celebration",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

// firstUserMention returns the first mentioned user id that is not the
// birthday role's own numeric id.
func (w *Watcher) firstUserMention(content string) string {
	for _, m := range userMentionPattern.FindAllStringSubmatch(content, -1) {
		if m[1] != w.roleID {
			return m[1]
		}
	}
	return ""
}

// celebrationDocument builds the birthday embed.
func celebrationDocument(m Member, now time.Time) board.Document {
	return board.Document{
		Title: fmt.Sprintf("🎉 %s's Birthday Celebration!", m.DisplayName),
		Description: fmt.Sprintf("Wishing you a fantastic birthday, %s! 🎂 Let's make it a memorable day! 🥳",
			m.Mention),
		Color:      0x800080, // purple
		ImageURL:   m.AvatarURL,
		FooterText: "Another trip around the sun! 🌟",
		Timestamp:  now,
	}
}
