package utils

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// Permission sets required by the moderation commands.
const (
	ModeratePermission = discordgo.PermissionModerateMembers
	KickPermission     = discordgo.PermissionKickMembers
	BanPermission      = discordgo.PermissionBanMembers
	ManagePermission   = discordgo.PermissionManageGuild
	MessagesPermission = discordgo.PermissionManageMessages
)

// CheckPermission reports whether the invoking member holds every bit of
// required. Administrators and configured developers always pass.
func CheckPermission(i *discordgo.InteractionCreate, required int64, developerUserIDs []string) bool {
	if i.Member == nil || i.Member.User == nil {
		return false
	}
	if slices.Contains(developerUserIDs, i.Member.User.ID) {
		return true
	}
	perms := i.Member.Permissions
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&required == required
}

// InvokingUser returns the user behind an interaction in a guild or DM.
func InvokingUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
