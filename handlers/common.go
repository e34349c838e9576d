package handlers

import (
	"context"
	"log/slog"

	"discord-modbot/model"
	"discord-modbot/moderation"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// createCase stores a case and publishes it. The returned label is empty
// when the case could not be stored; the action itself already happened,
// so the failure is logged rather than shown.
func (h *Handler) createCase(ctx context.Context, guildID string, nc model.NewCase, target string) string {
	c, err := h.db.CreateCase(ctx, nc)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create moderation case", "guild_id", guildID, "action", nc.Action, "error", err)
		return ""
	}
	moderation.PublishQuietly(ctx, h.notifier, h.logger, guildID, c, target)
	return utils.FormatCaseLabel(c.CaseCode, c.ActionCaseNumber)
}

func (h *Handler) sendTargetDM(ctx context.Context, guildID string, target *discordgo.User, actionPastTense, reason string, seconds int64) {
	embed := moderation.TargetDMEmbed(h.bot.Platform.GuildName(guildID), actionPastTense, reason, seconds)
	if err := h.platform.SendDM(ctx, target.ID, embed); err != nil {
		moderation.LogPlatformError(ctx, h.logger, "dm", err, "user_id", target.ID)
	}
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:          []*discordgo.MessageEmbed{embed},
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
	if err != nil {
		slog.Error("failed to send response", "error", err)
	}
}

func respondEphemeralEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Error("failed to send response", "error", err)
	}
}
