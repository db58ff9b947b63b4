// Package board renders the aggregated status board and reconciles it
// into its target channels.
//
// Rendering is a pure function from a registry snapshot to a Document.
// Publishing owns one live-message handle per configured surface and
// guarantees that each surface converges to exactly one visible board
// message, recovering when that message is deleted externally, edited
// concurrently, or the bot loses permission.
package board

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Title is the exact embed title of the live board message. The publisher
// uses it to recognize its own message in channel history after a restart,
// so it must never change between releases without a migration plan.
const Title = "🌟 Clan Status Board"

// Sentinel errors surfaces report so the publisher can pick a recovery
// path. Platform adapters wrap their SDK errors into these.
var (
	// ErrNotFound means the referenced message no longer exists.
	ErrNotFound = errors.New("board: message not found")
	// ErrForbidden means the bot lacks permission for the operation.
	ErrForbidden = errors.New("board: missing permission")
)

// Document is the rendered board. It is ephemeral: rebuilt on every
// render, never persisted, and diffed into a channel message by the
// publisher.
type Document struct {
	Title        string
	Description  string
	ThumbnailURL string
	ImageURL     string
	Color        int
	Fields       []Field
	FooterText   string
	Timestamp    time.Time
}

// Field is one embed field of the document.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Permissions reports the capabilities the publisher needs on a surface
// before it will attempt any write.
type Permissions struct {
	Send    bool // post a message
	Embed   bool // include embedded/structured content
	History bool // read recent channel history
}

// Missing lists the absent capabilities, for logging.
func (p Permissions) Missing() string {
	var missing []string
	if !p.Send {
		missing = append(missing, "send_messages")
	}
	if !p.Embed {
		missing = append(missing, "embed_links")
	}
	if !p.History {
		missing = append(missing, "read_message_history")
	}
	return strings.Join(missing, ", ")
}

// HistoryMessage is the slice of a channel message the publisher needs
// when rescanning history for a lost board message.
type HistoryMessage struct {
	ID         string
	FromSelf   bool   // authored by the bot itself
	EmbedTitle string // title of the first embed, if any
}

// Surface is one target channel the board is published into. Implemented
// by the platform adapter; faked in tests.
type Surface interface {
	// ID identifies the surface for logging.
	ID() string
	// Permissions probes the bot's capabilities on the surface.
	Permissions(ctx context.Context) (Permissions, error)
	// Send posts the document as a new message and returns its id.
	Send(ctx context.Context, doc Document) (string, error)
	// Edit replaces the content of an existing message in place.
	Edit(ctx context.Context, messageID string, doc Document) error
	// Fetch confirms a message still exists. Returns ErrNotFound when it
	// is gone.
	Fetch(ctx context.Context, messageID string) error
	// History returns up to limit recent messages, newest first.
	History(ctx context.Context, limit int) ([]HistoryMessage, error)
}

// Resolver maps a user id to the display name shown on the board. The
// second return is false when the user cannot be resolved (typically:
// they left the community); the renderer excludes such entries and
// reports them for pruning.
type Resolver interface {
	DisplayName(userID string) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(userID string) (string, bool)

func (f ResolverFunc) DisplayName(userID string) (string, bool) { return f(userID) }
