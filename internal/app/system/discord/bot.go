// Package discord adapts the gateway and REST API of Discord to the
// bot's platform-neutral interfaces: board surfaces, name resolvers,
// command responders, and the birthday poster. Nothing outside this
// package imports the SDK.
package discord

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/clanboard/internal/app/features/birthday"
	"github.com/dalemusser/clanboard/internal/app/features/board"
	"github.com/dalemusser/clanboard/internal/app/features/statuscmd"
	"github.com/dalemusser/clanboard/internal/app/system/tasks"
	"go.uber.org/zap"
)

// handlerTimeout bounds the work done for a single inbound event.
const handlerTimeout = 15 * time.Second

// DefaultStartupDelay is how long after the gateway is ready the first
// board publish runs, giving the member cache time to fill.
const DefaultStartupDelay = 3 * time.Second

// Config holds the adapter's channel wiring.
type Config struct {
	GuildID           string
	BirthdayChannelID string
	StartupDelay      time.Duration
}

// Bot owns the gateway session and routes its events into the feature
// handlers.
type Bot struct {
	session   *discordgo.Session
	cfg       Config
	handler   *statuscmd.Handler
	boards    *board.Service
	watcher   *birthday.Watcher
	sched     *tasks.Scheduler
	logger    *zap.Logger
	connected atomic.Bool
}

// NewSession creates a configured but unopened gateway session.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent
	return session, nil
}

// New wires the event routing over an unopened session.
func New(session *discordgo.Session, cfg Config, handler *statuscmd.Handler, boards *board.Service, watcher *birthday.Watcher, sched *tasks.Scheduler, logger *zap.Logger) *Bot {
	if cfg.StartupDelay <= 0 {
		cfg.StartupDelay = DefaultStartupDelay
	}
	return &Bot{
		session: session,
		cfg:     cfg,
		handler: handler,
		boards:  boards,
		watcher: watcher,
		sched:   sched,
		logger:  logger,
	}
}

// Start registers the event handlers and opens the gateway connection.
func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onDisconnect)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	b.connected.Store(false)
	return b.session.Close()
}

// Connected reports whether the gateway session is up. Wired into the
// health endpoint.
func (b *Bot) Connected() bool {
	return b.connected.Load()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.connected.Store(true)
	b.logger.Info("discord gateway ready",
		zap.String("user", r.User.Username),
		zap.Int("guilds", len(r.Guilds)))

	if err := s.UpdateListeningStatus(strings.TrimSpace(statuscmd.Prefix) + " help"); err != nil {
		b.logger.Warn("failed to set presence", zap.Error(err))
	}

	b.registerCommands(s)

	// First publish waits out the startup delay so restarts don't race
	// the member cache.
	b.sched.After(b.cfg.StartupDelay, "initial-board-publish", func(ctx context.Context) error {
		b.boards.Refresh(ctx)
		return nil
	})
}

func (b *Bot) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	b.connected.Store(false)
	b.logger.Warn("discord gateway disconnected")
}

// registerCommands publishes the slash commands, one per handler token.
// Registration failures are logged and skipped; the prefix commands
// still work.
func (b *Bot) registerCommands(s *discordgo.Session) {
	if s.State.User == nil {
		b.logger.Error("cannot register slash commands: no session user")
		return
	}
	appID := s.State.User.ID
	for _, c := range statuscmd.Commands() {
		cmd := &discordgo.ApplicationCommand{
			Name:        c.Token,
			Description: c.Description,
		}
		if _, err := s.ApplicationCommandCreate(appID, b.cfg.GuildID, cmd); err != nil {
			b.logger.Error("failed to register slash command",
				zap.String("command", c.Token),
				zap.Error(err))
		}
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	defer b.recoverEvent("message-create")

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if b.cfg.BirthdayChannelID != "" {
		b.watcher.HandleMessage(ctx, m.ChannelID, m.Content)
	}

	token, ok := commandToken(m.Content)
	if !ok {
		return
	}
	r := &messageResponder{session: s, channelID: m.ChannelID}
	b.handler.Handle(ctx, r, m.Author.ID, m.Author.Mention(), m.ID, token)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	user := interactionUser(i)
	if user == nil {
		return
	}
	defer b.recoverEvent("interaction-create")

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	r := &interactionResponder{session: s, interaction: i.Interaction}
	b.handler.Handle(ctx, r, user.ID, user.Mention(), "", i.ApplicationCommandData().Name)
}

// recoverEvent keeps one panicking handler from taking down the session.
func (b *Bot) recoverEvent(event string) {
	if r := recover(); r != nil {
		b.logger.Error("panic in event handler",
			zap.String("event", event),
			zap.Any("panic", r))
	}
}

// commandToken extracts the token after the command prefix. The prefix
// match is case insensitive; token normalization happens in the handler.
func commandToken(content string) (string, bool) {
	if len(content) < len(statuscmd.Prefix) {
		return "", false
	}
	if !strings.EqualFold(content[:len(statuscmd.Prefix)], statuscmd.Prefix) {
		return "", false
	}
	fields := strings.Fields(content[len(statuscmd.Prefix):])
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// interactionUser returns the invoking user for both guild and DM
// invocations.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
