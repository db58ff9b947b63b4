// internal/app/system/discord/embed.go
package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/clanboard/internal/app/features/board"
)

// embedFromDocument converts a rendered document into the wire embed.
func embedFromDocument(doc board.Document) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       doc.Title,
		Description: doc.Description,
		Color:       doc.Color,
	}
	for _, f := range doc.Fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if doc.FooterText != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: doc.FooterText}
	}
	if doc.ThumbnailURL != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: doc.ThumbnailURL}
	}
	if doc.ImageURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: doc.ImageURL}
	}
	if !doc.Timestamp.IsZero() {
		e.Timestamp = doc.Timestamp.UTC().Format(time.RFC3339)
	}
	return e
}
