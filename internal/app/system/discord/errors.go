// internal/app/system/discord/errors.go
package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/dalemusser/clanboard/internal/app/features/board"
)

// wrapErr maps Discord REST failures onto the sentinel errors the board
// publisher keys its recovery paths off. Everything else passes through
// unchanged.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return err
	}

	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return fmt.Errorf("%w: %v", board.ErrNotFound, err)
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%w: %v", board.ErrForbidden, err)
		}
	}

	if rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", board.ErrNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", board.ErrForbidden, err)
		}
	}

	return err
}
