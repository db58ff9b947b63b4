// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/clanboard/internal/app/features/board"
	"github.com/dalemusser/clanboard/internal/app/features/statuscmd"
	"github.com/dalemusser/clanboard/internal/app/system/discord"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "CLANBOARD"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, bot_token, etc.
//   - Environment variables: CLANBOARD_MONGO_URI, CLANBOARD_BOT_TOKEN, etc.
//   - Command-line flags: --mongo_uri, --bot_token, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "clanboard", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Discord connection
	{Name: "bot_token", Default: "", Desc: "Discord bot token (required)"},
	{Name: "guild_id", Default: "", Desc: "Discord guild (server) id the bot serves (required)"},

	// Channel wiring
	{Name: "board_channel_ids", Default: "", Desc: "Comma-separated channel ids the status board is published into (required)"},
	{Name: "birthday_channel_id", Default: "", Desc: "Channel id watched for birthday announcements (empty disables the watcher)"},
	{Name: "birthday_role_id", Default: "", Desc: "Role id whose mention triggers a birthday celebration"},

	// Board behavior
	{Name: "board_field_cap", Default: 10, Desc: "Max member names listed per status category before truncation"},
	{Name: "history_scan_limit", Default: 50, Desc: "Messages scanned per channel when relocating a lost board message"},
	{Name: "board_startup_delay", Default: "3s", Desc: "Delay between gateway ready and the first board publish"},

	// Ephemeral message lifetimes
	{Name: "command_delete_delay", Default: "5s", Desc: "How long a triggering command message survives before deletion"},
	{Name: "reply_delete_delay", Default: "10s", Desc: "How long the bot's acknowledgement survives before deletion"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		BotToken: appValues.String("bot_token"),
		GuildID:  appValues.String("guild_id"),

		BoardChannelIDs:   splitIDList(appValues.String("board_channel_ids")),
		BirthdayChannelID: appValues.String("birthday_channel_id"),
		BirthdayRoleID:    appValues.String("birthday_role_id"),

		BoardFieldCap:     appValues.Int("board_field_cap"),
		HistoryScanLimit:  appValues.Int("history_scan_limit"),
		BoardStartupDelay: appValues.Duration("board_startup_delay", discord.DefaultStartupDelay),

		CommandDeleteDelay: appValues.Duration("command_delete_delay", statuscmd.DefaultCommandDeleteDelay),
		ReplyDeleteDelay:   appValues.Duration("reply_delete_delay", statuscmd.DefaultReplyDeleteDelay),
	}
	if appCfg.BoardFieldCap < 1 {
		appCfg.BoardFieldCap = board.DefaultFieldCap
	}
	if appCfg.HistoryScanLimit < 1 {
		appCfg.HistoryScanLimit = board.DefaultScanLimit
	}
	if appCfg.BoardStartupDelay < 0 {
		appCfg.BoardStartupDelay = 0
	}

	return coreCfg, appCfg, nil
}

// splitIDList parses a comma-separated id list, dropping blanks.
func splitIDList(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.BotToken == "" {
		return fmt.Errorf("bot_token is required")
	}
	if appCfg.GuildID == "" {
		return fmt.Errorf("guild_id is required")
	}
	if len(appCfg.BoardChannelIDs) == 0 {
		return fmt.Errorf("board_channel_ids is required (comma-separated channel ids)")
	}
	if appCfg.BirthdayChannelID != "" && appCfg.BirthdayRoleID == "" {
		return fmt.Errorf("birthday_role_id is required when birthday_channel_id is set")
	}
	return nil
}
