package utils

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func interactionWith(userID string, perms int64) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: userID}, Permissions: perms},
	}}
}

func TestCheckPermission(t *testing.T) {
	assert.True(t, CheckPermission(interactionWith("1", ModeratePermission), ModeratePermission, nil))
	assert.False(t, CheckPermission(interactionWith("1", KickPermission), ModeratePermission, nil))
	assert.True(t, CheckPermission(interactionWith("1", discordgo.PermissionAdministrator), BanPermission, nil))
	assert.True(t, CheckPermission(interactionWith("dev", 0), ManagePermission, []string{"dev"}))
	assert.False(t, CheckPermission(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}, ModeratePermission, nil))
}

func TestInvokingUser(t *testing.T) {
	assert.Equal(t, "1", InvokingUser(interactionWith("1", 0)).ID)
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "2"}}}
	assert.Equal(t, "2", InvokingUser(dm).ID)
}
