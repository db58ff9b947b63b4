// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/clanboard/internal/app/features/birthday"
	"github.com/dalemusser/clanboard/internal/app/features/board"
	"github.com/dalemusser/clanboard/internal/app/features/statuscmd"
	"github.com/dalemusser/clanboard/internal/app/store/statuses"
	"github.com/dalemusser/clanboard/internal/app/system/discord"
	"github.com/dalemusser/clanboard/internal/app/system/registry"
	"github.com/dalemusser/clanboard/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Package-level handles for the pieces that outlive Startup: the health
// endpoint probes the bot, and Shutdown stops both the bot and the
// scheduler.
var (
	scheduler *tasks.Scheduler
	bot       *discord.Bot
)

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It wires the whole bot: hydrates the in-memory registry from the
// durable mirror, builds the board pipeline over the configured
// channels, starts the background scheduler, and opens the gateway
// connection. Returning a non-nil error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	store := statuses.New(deps.MongoDatabase)
	reg := registry.New(store, logger)

	rows, err := store.LoadAll(ctx)
	if err != nil {
		logger.Error("failed to load persisted statuses", zap.Error(err))
		return err
	}
	records := make([]registry.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, registry.Record{UserID: r.UserID, Status: r.Status})
	}
	reg.Hydrate(records)
	logger.Info("registry hydrated", zap.Int("statuses", reg.Len()))

	scheduler = tasks.New(tasks.RealClock(), logger)
	scheduler.Register(tasks.StoreAuditJob(reg, store, logger))

	session, err := discord.NewSession(appCfg.BotToken)
	if err != nil {
		return err
	}

	surfaces := discord.BoardSurfaces(session, appCfg.BoardChannelIDs)
	pub := board.NewPublisher(surfaces, appCfg.HistoryScanLimit, logger)
	resolver := discord.NewDisplayNameResolver(session, appCfg.GuildID)
	avatar := discord.SelfAvatarURL(session)
	boards := board.NewService(reg, resolver, pub, appCfg.BoardFieldCap, avatar, logger)

	handler := statuscmd.New(reg, boards.Refresh, scheduler, statuscmd.Options{
		CommandDeleteDelay: appCfg.CommandDeleteDelay,
		ReplyDeleteDelay:   appCfg.ReplyDeleteDelay,
		BoardChannelIDs:    appCfg.BoardChannelIDs,
		AvatarURL:          avatar,
	}, logger)

	watcher := birthday.New(appCfg.BirthdayChannelID, appCfg.BirthdayRoleID,
		discord.NewMemberResolver(session, appCfg.GuildID),
		discord.NewChannelPoster(session, appCfg.BirthdayChannelID),
		logger)

	bot = discord.New(session, discord.Config{
		GuildID:           appCfg.GuildID,
		BirthdayChannelID: appCfg.BirthdayChannelID,
		StartupDelay:      appCfg.BoardStartupDelay,
	}, handler, boards, watcher, scheduler, logger)

	scheduler.Start()
	if err := bot.Start(); err != nil {
		logger.Error("failed to open discord gateway", zap.Error(err))
		return err
	}

	logger.Info("bot started",
		zap.String("guild_id", appCfg.GuildID),
		zap.Int("board_channels", len(appCfg.BoardChannelIDs)),
		zap.Bool("birthday_watcher", appCfg.BirthdayChannelID != ""))
	return nil
}
