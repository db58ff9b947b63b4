// Package statuscmd handles the short status commands: looking up the
// target status, applying the registry transition, acknowledging with
// copy that depends on the previous status, and requesting a board
// refresh. Command and reply messages are deleted after short delays to
// keep the channel tidy.
package statuscmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/clanboard/internal/app/features/board"
	"github.com/dalemusser/clanboard/internal/app/system/registry"
	"github.com/dalemusser/clanboard/internal/app/system/tasks"
	"github.com/dalemusser/clanboard/internal/domain/status"
	"go.uber.org/zap"
)

// Prefix is the text command prefix. Matched case-insensitively.
const Prefix = "AC "

// Default ephemeral-message lifetimes, overridable via configuration.
const (
	DefaultCommandDeleteDelay = 5 * time.Second
	DefaultReplyDeleteDelay   = 10 * time.Second
)

// Responder sends and deletes messages in the conversation a command
// arrived in. Implemented by the platform adapter; faked in tests.
type Responder interface {
	Reply(ctx context.Context, content string) (messageID string, err error)
	ReplyEmbed(ctx context.Context, doc board.Document) (messageID string, err error)
	// Delete removes a message. Deleting an empty id is a no-op (slash
	// invocations have no command message to delete).
	Delete(ctx context.Context, messageID string) error
}

// CommandSpec describes one command for slash registration and help text.
type CommandSpec struct {
	Token       string
	Description string
}

// Commands returns every command the handler understands, status setters
// in catalog order followed by cs and help. The platform adapter
// registers these as slash commands with identical semantics.
func Commands() []CommandSpec {
	var specs []CommandSpec
	for _, e := range status.All() {
		specs = append(specs, CommandSpec{
			Token:       e.Token,
			Description: "Set status to " + e.Category,
		})
	}
	specs = append(specs,
		CommandSpec{Token: "cs", Description: "Clear your current status"},
		CommandSpec{Token: "help", Description: "Show how to use the Status Board"},
	)
	return specs
}

// Options carries the handler's presentation knobs.
type Options struct {
	CommandDeleteDelay time.Duration // zero falls back to DefaultCommandDeleteDelay
	ReplyDeleteDelay   time.Duration // zero falls back to DefaultReplyDeleteDelay
	BoardChannelIDs    []string      // linked from the help embed
	AvatarURL          func() string // bot avatar for the help thumbnail; nil omits it
}

// Handler processes status commands.
type Handler struct {
	registry      *registry.Registry
	refresh       func(ctx context.Context)
	sched         *tasks.Scheduler
	commandDelay  time.Duration
	replyDelay    time.Duration
	boardChannels []string
	avatar        func() string
	logger        *zap.Logger
}

// New creates a command handler. refresh is invoked after every
// successful status transition; the option delays control the ephemeral
// deletion of the triggering command and the bot's reply.
func New(reg *registry.Registry, refresh func(ctx context.Context), sched *tasks.Scheduler, opts Options, logger *zap.Logger) *Handler {
	if opts.CommandDeleteDelay <= 0 {
		opts.CommandDeleteDelay = DefaultCommandDeleteDelay
	}
	if opts.ReplyDeleteDelay <= 0 {
		opts.ReplyDeleteDelay = DefaultReplyDeleteDelay
	}
	return &Handler{
		registry:      reg,
		refresh:       refresh,
		sched:         sched,
		commandDelay:  opts.CommandDeleteDelay,
		replyDelay:    opts.ReplyDeleteDelay,
		boardChannels: opts.BoardChannelIDs,
		avatar:        opts.AvatarURL,
		logger:        logger,
	}
}

// Handle runs one command. token is the text after the prefix (or the
// slash command name); commandMessageID is the triggering message, empty
// for slash invocations. Unknown tokens get a hint reply and change
// nothing.
func (h *Handler) Handle(ctx context.Context, r Responder, userID, mention, commandMessageID, token string) {
	token = strings.ToLower(strings.TrimSpace(token))

	switch token {
	case "help":
		var avatarURL string
		if h.avatar != nil {
			avatarURL = h.avatar()
		}
		h.reply(ctx, r, commandMessageID, "", helpDocument(time.Now().UTC(), avatarURL, h.boardChannels))
		return
	case "cs":
		h.handleClear(ctx, r, userID, mention, commandMessageID)
		return
	}

	v, ok := status.Lookup(token)
	if !ok {
		h.reply(ctx, r, commandMessageID, unknownTokenHint(mention), board.Document{})
		return
	}

	prevVal, had := h.registry.Set(ctx, userID, v)
	var prev *status.Value
	if had {
		prev = &prevVal
	}
	h.logger.Info("status set",
		zap.String("user_id", userID),
		zap.String("status", string(v)))

	h.reply(ctx, r, commandMessageID, acknowledgement(v, prev, mention), board.Document{})
	h.refresh(ctx)
}

func (h *Handler) handleClear(ctx context.Context, r Responder, userID, mention, commandMessageID string) {
	if !h.registry.Clear(ctx, userID) {
		// Reported no-op: the user gets a hint, the board is untouched.
		h.reply(ctx, r, commandMessageID, noStatusHint(mention), board.Document{})
		return
	}
	h.logger.Info("status cleared", zap.String("user_id", userID))
	h.reply(ctx, r, commandMessageID, clearAcknowledgement(mention), board.Document{})
	h.refresh(ctx)
}

// reply sends either plain content or an embed, then schedules the
// ephemeral deletions. Acknowledgements always appear, even for no-ops;
// a failed send is logged and the cycle continues.
func (h *Handler) reply(ctx context.Context, r Responder, commandMessageID, content string, embed board.Document) {
	var replyID string
	var err error
	if content != "" {
		replyID, err = r.Reply(ctx, content)
	} else {
		replyID, err = r.ReplyEmbed(ctx, embed)
	}
	if err != nil {
		h.logger.Error("failed to send command acknowledgement", zap.Error(err))
	}

	if commandMessageID != "" {
		h.scheduleDelete(r, "delete-command-message", commandMessageID, h.commandDelay)
	}
	if replyID != "" {
		h.scheduleDelete(r, "delete-reply", replyID, h.replyDelay)
	}
}

func (h *Handler) scheduleDelete(r Responder, name, messageID string, delay time.Duration) {
	h.sched.After(delay, name, func(ctx context.Context) error {
		return r.Delete(ctx, messageID)
	})
}

// helpDocument builds the usage embed. Commands and categories come from
// the catalog so the help text can never drift from the real command set;
// boardChannels are linked so members know where the board lives.
func helpDocument(now time.Time, avatarURL string, boardChannels []string) board.Document {
	var b strings.Builder
	for _, e := range status.All() {
		fmt.Fprintf(&b, "`%s%s` - Set to **%s** %s\n", Prefix, e.Token, e.Category, e.Emoji)
	}
	b.WriteString("`" + Prefix + "cs` - Clear your status 🧹")

	fields := []board.Field{
		{Name: "📚 Status Commands", Value: b.String(), Inline: false},
		{Name: "🔧 How It Works", Value: "1. Use a status command (e.g., `" + Prefix + "srn`) to set your status.\n" +
			"2. Your status appears on the **Status Board** in the designated channels.\n" +
			"3. Your command deletes after a few seconds, and my reply vanishes shortly after — keeping things tidy! 🧹\n" +
			"4. Update or clear your status anytime! 🌟", Inline: false},
	}
	if len(boardChannels) > 0 {
		fields = append(fields, board.Field{
			Name: "📍 Where to Find the Status Board",
			Value: fmt.Sprintf("Check out the Status Board in %s! "+
				"It updates in real-time to reflect the clan's current vibes. 🌈",
				channelMentionList(boardChannels)),
			Inline: false,
		})
	}

	return board.Document{
		Title: "📋 Clan Status Board Guide",
		Description: "Welcome to the heart of the clan! 🌟\n" +
			"The Status Board keeps everyone connected — share what you're up to, " +
			"from studying to chilling, and everything in between. 📖",
		ThumbnailURL: avatarURL,
		Color:        0xFFB6C1, // soft pink
		Fields:       fields,
		FooterText:   "Prefix: " + strings.TrimSpace(Prefix) + " • Let's stay connected! 🌈",
		Timestamp:    now,
	}
}

// channelMentionList joins channel mentions into prose: "<#a>",
// "<#a> and <#b>", "<#a>, <#b> and <#c>".
func channelMentionList(channelIDs []string) string {
	mentions := make([]string, len(channelIDs))
	for i, id := range channelIDs {
		mentions[i] = "<#" + id + ">"
	}
	if len(mentions) == 1 {
		return mentions[0]
	}
	return strings.Join(mentions[:len(mentions)-1], ", ") + " and " + mentions[len(mentions)-1]
}
