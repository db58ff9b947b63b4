// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//   - Database connection timeouts
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Discord connection configuration
	BotToken string // Bot token (required)
	GuildID  string // Guild the bot serves; also scopes slash command registration

	// Channel wiring
	BoardChannelIDs   []string // Channels the status board is published into
	BirthdayChannelID string   // Channel watched for birthday announcements (empty disables)
	BirthdayRoleID    string   // Role whose mention triggers a celebration

	// Board behavior
	BoardFieldCap     int           // Max names listed per status category (default: 10)
	HistoryScanLimit  int           // Messages scanned when relocating a lost board (default: 50)
	BoardStartupDelay time.Duration // Delay before the first publish after the gateway is ready

	// Ephemeral message lifetimes
	CommandDeleteDelay time.Duration // How long a triggering command message survives (default: 5s)
	ReplyDeleteDelay   time.Duration // How long the bot's acknowledgement survives (default: 10s)
}
