package moderation

import (
	"fmt"
	"strconv"
	"strings"

	"discord-modbot/model"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

const noReason = "No reason provided"

// CaseEmbed renders a case for the modlog channel. target overrides the
// Target line; when empty the case's target user is mentioned.
func CaseEmbed(c *model.CaseSummary, target string) *discordgo.MessageEmbed {
	lines := []string{"**Action :** " + utils.ActionDisplayName(c.Action)}

	if target == "" && c.TargetUserID != nil {
		target = Mention(*c.TargetUserID)
	}
	if target != "" {
		lines = append(lines, "**Target :** "+target)
	}

	lines = append(lines, "**Reason :** "+utils.DefuseMentions(reasonOrDefault(c.Reason)))
	if c.DurationSeconds != nil {
		lines = append(lines, "**Duration :** "+utils.FormatCompactDuration(*c.DurationSeconds))
	}
	lines = append(lines,
		"**Moderator :** "+Mention(c.ModeratorUserID),
		"**When :** "+utils.DiscordTimestamp(c.CreatedAt),
	)

	return &discordgo.MessageEmbed{
		Title:       "#" + utils.FormatCaseLabel(c.CaseCode, c.ActionCaseNumber),
		Description: strings.Join(lines, "\n"),
		Color:       utils.DefaultEmbedColor,
	}
}

// TargetDMEmbed is sent to the member an action was taken against.
// actionPastTense reads like "warned" or "timed out".
func TargetDMEmbed(guildName, actionPastTense, reason string, durationSeconds int64) *discordgo.MessageEmbed {
	var details []string
	if reason != "" {
		details = append(details, "**Reason :** "+utils.DefuseMentions(reason))
	}
	if durationSeconds > 0 {
		details = append(details, "**Duration :** "+utils.FormatCompactDuration(durationSeconds))
	}

	description := "No additional details were provided."
	if len(details) > 0 {
		description = strings.Join(details, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("You have been %s in %s", actionPastTense, guildName),
		Description: description,
		Color:       utils.DefaultEmbedColor,
	}
}

// ActionEmbed is the public confirmation shown after a moderation command.
func ActionEmbed(target *discordgo.User, actionPastTense, reason string, durationSeconds int64, caseLabel string) *discordgo.MessageEmbed {
	lines := []string{
		"**Target :** " + target.Mention(),
		"**Reason :** " + utils.DefuseMentions(reasonOrDefault(reason)),
	}
	if durationSeconds > 0 {
		lines = append(lines, "**Duration :** "+utils.FormatCompactDuration(durationSeconds))
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s has been %s", DisplayName(target), actionPastTense),
			IconURL: target.AvatarURL(""),
		},
		Description: strings.Join(lines, "\n"),
		Color:       utils.DefaultEmbedColor,
	}
	if caseLabel != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Case #" + caseLabel}
	}
	return embed
}

// DisplayName prefers the global name over the username.
func DisplayName(u *discordgo.User) string {
	switch {
	case u.GlobalName != "":
		return u.GlobalName
	case u.Username != "":
		return u.Username
	default:
		return "User " + u.ID
	}
}

func Mention(userID int64) string {
	return "<@" + strconv.FormatInt(userID, 10) + ">"
}

func reasonOrDefault(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return noReason
	}
	return reason
}
