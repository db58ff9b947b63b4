package board

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/clanboard/internal/app/system/registry"
	"github.com/dalemusser/clanboard/internal/domain/status"
)

// DefaultFieldCap is the default number of names shown per category
// before the overflow marker takes over.
const DefaultFieldCap = 10

// Board presentation constants. The title doubles as the recovery marker
// (see Title in types.go), so everything user-facing but non-identifying
// lives here instead.
const (
	boardDescription = "✨ **Welcome to the Clan Status Hub!** ✨\n" +
		"Here's what our members are up to — set your status with commands " +
		"like `AC srn`, `AC b`, or `AC f` to let everyone know your vibe! 🌈"
	boardFooter = "Set your status with AC srn, AC b, AC dl, AC f, AC s, or AC o! 🌟 • Updates in real-time!"
	boardColor  = 0x9370DB // soft purple

	emptyFieldName  = "📖 No Statuses Yet"
	emptyFieldValue = "It's quiet in the clan... Be the first to set your status! " +
		"Use `AC srn`, `AC b`, or others to share what you're up to! 🖋️"
)

type resolved struct {
	userID string
	name   string
	status status.Value
}

// Render builds the board document for a registry snapshot. It is a pure
// function: no I/O, no registry mutation, and byte-identical output for
// identical (snapshot, resolver, avatarURL, now) inputs.
//
// avatarURL is the bot's own avatar, shown as the embed thumbnail; empty
// omits it. Entries whose user id cannot be resolved to a display name
// are excluded from the document and returned as the prune list; the
// caller applies them to the registry. fieldCap bounds the names shown
// per category; values below one fall back to DefaultFieldCap.
func Render(snap []registry.UserStatus, resolver Resolver, avatarURL string, now time.Time, fieldCap int) (Document, []string) {
	if fieldCap < 1 {
		fieldCap = DefaultFieldCap
	}

	var entries []resolved
	var prune []string
	for _, us := range snap {
		name, ok := resolver.DisplayName(us.UserID)
		if !ok {
			prune = append(prune, us.UserID)
			continue
		}
		entries = append(entries, resolved{userID: us.UserID, name: name, status: us.Status})
	}

	// Case-insensitive by display name, user id as a deterministic
	// tiebreak.
	sort.Slice(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].name), strings.ToLower(entries[j].name)
		if a != b {
			return a < b
		}
		return entries[i].userID < entries[j].userID
	})
	sort.Strings(prune)

	doc := Document{
		Title:        Title,
		Description:  boardDescription,
		ThumbnailURL: avatarURL,
		Color:        boardColor,
		FooterText:   boardFooter,
		Timestamp:    now,
	}

	if len(entries) == 0 {
		doc.Fields = append(doc.Fields, Field{
			Name:   emptyFieldName,
			Value:  emptyFieldValue,
			Inline: false,
		})
	} else {
		buckets := make(map[status.Value][]resolved)
		for _, e := range entries {
			buckets[e.status] = append(buckets[e.status], e)
		}

		// Categories appear in catalog order; empty ones produce no field.
		for _, entry := range status.All() {
			members := buckets[entry.Value]
			if len(members) == 0 {
				continue
			}

			shown := members
			if len(shown) > fieldCap {
				shown = shown[:fieldCap]
			}
			names := make([]string, len(shown))
			for i, m := range shown {
				names[i] = m.name
			}
			value := strings.Join(names, ", ")
			if rest := len(members) - fieldCap; rest > 0 {
				value += fmt.Sprintf(" + %d more", rest)
			}

			doc.Fields = append(doc.Fields, Field{
				Name:   fmt.Sprintf("%s %s (%d)", entry.Emoji, entry.Category, len(members)),
				Value:  value,
				Inline: true,
			})
		}
	}

	doc.Fields = append(doc.Fields, Field{
		Name: "📊 Clan Activity Summary",
		Value: fmt.Sprintf("**Total Members with Status:** %d\n**Last Updated:** <t:%d:R>",
			len(entries), now.Unix()),
		Inline: false,
	})

	return doc, prune
}
