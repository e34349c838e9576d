package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"discord-modbot/model"
	"discord-modbot/moderation"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultTimeoutSeconds = 10 * 60
	maxTimeoutSeconds     = 28 * secondsPerDay
)

// parseTimeoutDuration applies the default and the platform's 28 day cap.
func parseTimeoutDuration(raw string) (int64, string) {
	if strings.TrimSpace(raw) == "" {
		return defaultTimeoutSeconds, ""
	}
	seconds, ok := utils.ParseDurationSeconds(raw)
	if !ok {
		return 0, "Invalid duration. Use something like 10m, 1h30m or 2d."
	}
	if seconds > maxTimeoutSeconds {
		return 0, "Timeout duration must be at most 28d."
	}
	return seconds, ""
}

// memberAction is one of the direct moderation commands.
type memberAction struct {
	perm       int64
	verb       string
	pastTense  string
	action     model.Action
	dmFirst    bool
	apply      func(ctx context.Context, guildID string, target *discordgo.User, reason string, opts optionMap, seconds int64) error
	duration   bool
	failureMsg string
}

func (h *Handler) runMemberAction(s *discordgo.Session, i *discordgo.InteractionCreate, a memberAction) {
	if !h.allowed(s, i, a.perm) {
		return
	}
	opts := toOptionMap(i.ApplicationCommandData().Options)
	moderator := utils.InvokingUser(i)
	target := opts.user(i, "user")
	if msg := checkTarget(moderator, target, a.verb); msg != "" {
		utils.SendErrorResponse(s, i, msg)
		return
	}
	reason := strings.TrimSpace(opts.string("reason"))

	var seconds int64
	if a.duration {
		var msg string
		if seconds, msg = parseTimeoutDuration(opts.string("duration")); msg != "" {
			utils.SendErrorResponse(s, i, msg)
			return
		}
	}

	if err := utils.DeferResponse(s, i, false); err != nil {
		h.logger.Error("failed to defer response", "command", a.verb, "error", err)
		return
	}
	ctx, cancel := interactionContext()
	defer cancel()

	// Kicked or banned members can no longer be reached once they are gone.
	if a.dmFirst {
		h.sendTargetDM(ctx, i.GuildID, target, a.pastTense, reason, seconds)
	}

	auditReason := reason
	if auditReason == "" {
		auditReason = "No reason provided"
	}
	if err := a.apply(ctx, i.GuildID, target, auditReason, opts, seconds); err != nil {
		moderation.LogPlatformError(ctx, h.logger, a.verb, err, "guild_id", i.GuildID, "user_id", target.ID)
		msg := a.failureMsg
		if moderation.IsMissingPermissions(err) {
			msg += " Check my permissions and role position."
		}
		utils.SendFollowUpError(s, i.Interaction, msg)
		return
	}

	nc := model.NewCase{
		GuildID:         snowflake(i.GuildID),
		TargetUserID:    model.Int64Ptr(snowflake(target.ID)),
		ModeratorUserID: snowflake(moderator.ID),
		Action:          string(a.action),
		Reason:          reason,
		Status:          model.CaseStatusCompleted,
	}
	if seconds > 0 {
		nc.DurationSeconds = model.Int64Ptr(seconds)
	}
	label := h.createCase(ctx, i.GuildID, nc, target.Mention())

	if !a.dmFirst {
		h.sendTargetDM(ctx, i.GuildID, target, a.pastTense, reason, seconds)
	}
	utils.SendFollowUpEmbed(s, i.Interaction, moderation.ActionEmbed(target, a.pastTense, reason, seconds, label), nil)
}

func (h *Handler) handleTimeout(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.runMemberAction(s, i, memberAction{
		perm:      utils.ModeratePermission,
		verb:      "timeout",
		pastTense: "timed out",
		action:    model.ActionTimeout,
		duration:  true,
		apply: func(ctx context.Context, guildID string, target *discordgo.User, reason string, _ optionMap, seconds int64) error {
			until := time.Now().Add(time.Duration(seconds) * time.Second)
			return h.platform.TimeoutMember(ctx, guildID, target.ID, until, reason)
		},
		failureMsg: "I couldn't time out that member.",
	})
}

func (h *Handler) handleUntimeout(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.runMemberAction(s, i, memberAction{
		perm:      utils.ModeratePermission,
		verb:      "untimeout",
		pastTense: "released from timeout",
		action:    model.ActionUntimeout,
		apply: func(ctx context.Context, guildID string, target *discordgo.User, reason string, _ optionMap, _ int64) error {
			return h.platform.RemoveTimeout(ctx, guildID, target.ID, reason)
		},
		failureMsg: "I couldn't remove that member's timeout.",
	})
}

func (h *Handler) handleKick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.runMemberAction(s, i, memberAction{
		perm:      utils.KickPermission,
		verb:      "kick",
		pastTense: "kicked",
		action:    model.ActionKick,
		dmFirst:   true,
		apply: func(ctx context.Context, guildID string, target *discordgo.User, reason string, _ optionMap, _ int64) error {
			return h.platform.Kick(ctx, guildID, target.ID, reason)
		},
		failureMsg: "I couldn't kick that member.",
	})
}

func (h *Handler) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.runMemberAction(s, i, memberAction{
		perm:      utils.BanPermission,
		verb:      "ban",
		pastTense: "banned",
		action:    model.ActionBan,
		dmFirst:   true,
		apply: func(ctx context.Context, guildID string, target *discordgo.User, reason string, opts optionMap, _ int64) error {
			return h.platform.Ban(ctx, guildID, target.ID, reason, int(opts.int("delete_days", 0)))
		},
		failureMsg: "I couldn't ban that user.",
	})
}

func (h *Handler) handleUnban(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.runMemberAction(s, i, memberAction{
		perm:      utils.BanPermission,
		verb:      "unban",
		pastTense: "unbanned",
		action:    model.ActionUnban,
		apply: func(ctx context.Context, guildID string, target *discordgo.User, reason string, _ optionMap, _ int64) error {
			return h.platform.Unban(ctx, guildID, target.ID, reason)
		},
		failureMsg: "I couldn't unban that user. They may not be banned, or I lack permissions.",
	})
}

func (h *Handler) handlePurge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.MessagesPermission) {
		return
	}
	opts := toOptionMap(i.ApplicationCommandData().Options)
	amount := opts.int("amount", 0)
	if amount < 1 || amount > moderation.MaxPurge {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Amount must be between 1 and %d.", moderation.MaxPurge))
		return
	}
	reason := strings.TrimSpace(opts.string("reason"))
	moderator := utils.InvokingUser(i)

	if err := utils.DeferResponse(s, i, true); err != nil {
		h.logger.Error("failed to defer response", "command", "purge", "error", err)
		return
	}
	ctx, cancel := interactionContext()
	defer cancel()

	deleted, err := h.platform.PurgeMessages(ctx, i.ChannelID, int(amount))
	if err != nil {
		moderation.LogPlatformError(ctx, h.logger, "purge", err, "guild_id", i.GuildID, "channel_id", i.ChannelID)
		utils.SendFollowUpError(s, i.Interaction, "I couldn't delete messages. I likely need the 'Manage Messages' permission.")
		return
	}
	if deleted == 0 {
		utils.SendFollowUpError(s, i.Interaction, "No messages found to delete.")
		return
	}

	label := h.createCase(ctx, i.GuildID, model.NewCase{
		GuildID:         snowflake(i.GuildID),
		ModeratorUserID: snowflake(moderator.ID),
		Action:          string(model.ActionPurge),
		Reason:          reason,
		Status:          model.CaseStatusCompleted,
	}, "<#"+i.ChannelID+">")
	utils.SendFollowUpEmbed(s, i.Interaction, purgeEmbed(deleted, i.ChannelID, reason, label), nil)
}

func purgeEmbed(deleted int, channelID, reason, label string) *discordgo.MessageEmbed {
	lines := []string{fmt.Sprintf("Purged %d message(s) in <#%s>.", deleted, channelID)}
	if reason != "" {
		lines = append(lines, "**Reason :** "+utils.DefuseMentions(reason))
	}
	embed := &discordgo.MessageEmbed{
		Description: strings.Join(lines, "\n"),
		Color:       utils.DefaultEmbedColor,
	}
	if label != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Case #" + label}
	}
	return embed
}
