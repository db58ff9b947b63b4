package discord

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/clanboard/internal/app/features/board"
)

func TestCommandToken(t *testing.T) {
	cases := []struct {
		content string
		token   string
		ok      bool
	}{
		{"AC srn", "srn", true},
		{"ac b", "b", true},
		{"Ac cs", "cs", true},
		{"AC srn trailing words", "srn", true},
		{"AC   dl", "dl", true},
		{"AC ", "", false},
		{"AC", "", false},
		{"hello everyone", "", false},
		{"ACsrn", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		token, ok := commandToken(c.content)
		if token != c.token || ok != c.ok {
			t.Errorf("commandToken(%q) = (%q, %v), want (%q, %v)",
				c.content, token, ok, c.token, c.ok)
		}
	}
}

func TestPermissionsFromBits(t *testing.T) {
	all := int64(discordgo.PermissionSendMessages |
		discordgo.PermissionEmbedLinks |
		discordgo.PermissionReadMessageHistory)

	p := permissionsFromBits(all)
	if !p.Send || !p.Embed || !p.History {
		t.Errorf("full bits = %+v, want all true", p)
	}

	p = permissionsFromBits(all &^ int64(discordgo.PermissionEmbedLinks))
	if !p.Send || p.Embed || !p.History {
		t.Errorf("no-embed bits = %+v, want Embed false only", p)
	}

	p = permissionsFromBits(0)
	if p.Send || p.Embed || p.History {
		t.Errorf("zero bits = %+v, want all false", p)
	}
}

func restError(code, status int) *discordgo.RESTError {
	return &discordgo.RESTError{
		Message:  &discordgo.APIErrorMessage{Code: code},
		Response: &http.Response{StatusCode: status},
	}
}

func TestWrapErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"unknown message", restError(discordgo.ErrCodeUnknownMessage, http.StatusNotFound), board.ErrNotFound},
		{"unknown channel", restError(discordgo.ErrCodeUnknownChannel, http.StatusNotFound), board.ErrNotFound},
		{"missing permissions", restError(discordgo.ErrCodeMissingPermissions, http.StatusForbidden), board.ErrForbidden},
		{"missing access", restError(discordgo.ErrCodeMissingAccess, http.StatusForbidden), board.ErrForbidden},
		{"status only 404", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}, board.ErrNotFound},
		{"status only 403", &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}, board.ErrForbidden},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := wrapErr(c.err)
			if c.want == nil {
				if got != nil {
					t.Fatalf("wrapErr = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, c.want) {
				t.Errorf("wrapErr = %v, does not wrap %v", got, c.want)
			}
		})
	}
}

func TestWrapErr_PassthroughUnknown(t *testing.T) {
	plain := errors.New("connection reset")
	if got := wrapErr(plain); got != plain {
		t.Errorf("wrapErr(plain) = %v, want the error unchanged", got)
	}

	rest := restError(50035, http.StatusBadRequest) // invalid form body
	got := wrapErr(rest)
	if errors.Is(got, board.ErrNotFound) || errors.Is(got, board.ErrForbidden) {
		t.Errorf("wrapErr misclassified %v as %v", rest, got)
	}
}

func TestEmbedFromDocument(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	doc := board.Document{
		Title:       "🌟 Clan Status Board",
		Description: "desc",
		Color:       0x9370DB,
		Fields: []board.Field{
			{Name: "a", Value: "1", Inline: false},
			{Name: "b", Value: "2", Inline: true},
		},
		FooterText: "footer",
		ImageURL:   "https://cdn.example/img.png",
		Timestamp:  ts,
	}

	e := embedFromDocument(doc)

	if e.Title != doc.Title || e.Description != "desc" || e.Color != 0x9370DB {
		t.Errorf("header fields = %q/%q/%#x", e.Title, e.Description, e.Color)
	}
	if len(e.Fields) != 2 || e.Fields[1].Name != "b" || !e.Fields[1].Inline {
		t.Errorf("fields = %+v", e.Fields)
	}
	if e.Footer == nil || e.Footer.Text != "footer" {
		t.Errorf("footer = %+v", e.Footer)
	}
	if e.Image == nil || e.Image.URL != doc.ImageURL {
		t.Errorf("image = %+v", e.Image)
	}
	if e.Thumbnail != nil {
		t.Errorf("thumbnail = %+v, want nil for empty url", e.Thumbnail)
	}
	if e.Timestamp != "2026-03-14T15:09:26Z" {
		t.Errorf("timestamp = %q", e.Timestamp)
	}
}

func TestEmbedFromDocument_ZeroTimestampOmitted(t *testing.T) {
	e := embedFromDocument(board.Document{Title: "t"})
	if e.Timestamp != "" {
		t.Errorf("timestamp = %q, want empty", e.Timestamp)
	}
}

func TestDisplayName(t *testing.T) {
	user := &discordgo.User{Username: "kenji_raw", GlobalName: "Kenji"}

	if got := displayName(&discordgo.Member{Nick: "Captain", User: user}); got != "Captain" {
		t.Errorf("nick precedence: got %q", got)
	}
	if got := displayName(&discordgo.Member{User: user}); got != "Kenji" {
		t.Errorf("global name fallback: got %q", got)
	}
	if got := displayName(&discordgo.Member{User: &discordgo.User{Username: "kenji_raw"}}); got != "kenji_raw" {
		t.Errorf("username fallback: got %q", got)
	}
}
