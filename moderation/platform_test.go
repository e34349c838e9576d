package moderation

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestIsMissingPermissions(t *testing.T) {
	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}
	missing := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusBadRequest},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
	}
	notFound := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember},
	}

	assert.True(t, IsMissingPermissions(forbidden))
	assert.True(t, IsMissingPermissions(missing))
	assert.True(t, IsMissingPermissions(fmt.Errorf("timeout: %w", forbidden)))
	assert.False(t, IsMissingPermissions(notFound))
	assert.False(t, IsMissingPermissions(errors.New("connection reset")))
	assert.False(t, IsMissingPermissions(nil))
}
