package handlers

import (
	"fmt"
	"strings"
	"time"

	"discord-modbot/model"
	"discord-modbot/moderation"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	terminateConfirmPrefix = "terminate_confirm:"
	terminateCancelPrefix  = "terminate_cancel:"
	terminateTTL           = 30 * time.Second
	maxPurgePeriodSeconds  = 7 * secondsPerDay
)

// parsePurgePeriod turns the message cleanup window into Discord's whole
// delete days, rounding up. Empty means the full seven days.
func parsePurgePeriod(raw string) (int, string) {
	seconds := int64(maxPurgePeriodSeconds)
	if strings.TrimSpace(raw) != "" {
		var ok bool
		if seconds, ok = utils.ParseDurationSeconds(raw); !ok || seconds <= 0 {
			return 0, "Invalid period. Use something like 12h, 3d or 7d."
		}
	}
	if seconds > maxPurgePeriodSeconds {
		return 0, "Period must be at most 7d."
	}
	days := int((seconds + secondsPerDay - 1) / secondsPerDay)
	return min(days, 7), ""
}

type terminateRequest struct {
	GuildID     string
	Target      *discordgo.User
	ModeratorID string
	Reason      string
	DeleteDays  int
}

func (h *Handler) handleTerminate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.BanPermission|utils.MessagesPermission) {
		return
	}
	opts := toOptionMap(i.ApplicationCommandData().Options)
	moderator := utils.InvokingUser(i)
	target := opts.user(i, "user")
	if msg := checkTarget(moderator, target, "terminate"); msg != "" {
		utils.SendErrorResponse(s, i, msg)
		return
	}
	days, msg := parsePurgePeriod(opts.string("period"))
	if msg != "" {
		utils.SendErrorResponse(s, i, msg)
		return
	}

	token := uuid.NewString()
	h.pendingTerminate.Put(token, terminateRequest{
		GuildID:     i.GuildID,
		Target:      target,
		ModeratorID: moderator.ID,
		Reason:      strings.TrimSpace(opts.string("reason")),
		DeleteDays:  days,
	})

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Ban %s and delete %d day(s) of their messages? Expires in %s.",
				target.Mention(), days, utils.FormatCompactDuration(int64(terminateTTL.Seconds()))),
			Flags: discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Terminate", Style: discordgo.DangerButton, CustomID: terminateConfirmPrefix + token},
					discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: terminateCancelPrefix + token},
				}},
			},
		},
	})
	if err != nil {
		h.logger.Error("failed to send terminate confirmation", "error", err)
	}
}

func (h *Handler) handleTerminateConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	confirmed := strings.HasPrefix(customID, terminateConfirmPrefix)
	token := strings.TrimPrefix(strings.TrimPrefix(customID, terminateConfirmPrefix), terminateCancelPrefix)

	req, ok := h.pendingTerminate.Take(token)
	if !ok {
		utils.UpdateComponentMessage(s, i, "This confirmation has expired. The user was left unchanged.", nil, nil)
		return
	}
	clicker := utils.InvokingUser(i)
	if clicker == nil || clicker.ID != req.ModeratorID {
		h.pendingTerminate.Put(token, req)
		utils.SendErrorResponse(s, i, "Only the moderator who ran the command can confirm it.")
		return
	}
	if !confirmed {
		utils.UpdateComponentMessage(s, i, "Termination cancelled.", nil, nil)
		return
	}

	ctx, cancel := interactionContext()
	defer cancel()

	h.sendTargetDM(ctx, req.GuildID, req.Target, "terminated", req.Reason, 0)

	auditReason := req.Reason
	if auditReason == "" {
		auditReason = "No reason provided"
	}
	if err := h.platform.Ban(ctx, req.GuildID, req.Target.ID, auditReason, req.DeleteDays); err != nil {
		moderation.LogPlatformError(ctx, h.logger, "terminate", err, "guild_id", req.GuildID, "user_id", req.Target.ID)
		msg := "❌ I couldn't terminate that user."
		if moderation.IsMissingPermissions(err) {
			msg += " Check my permissions and role position."
		}
		utils.UpdateComponentMessage(s, i, msg, nil, nil)
		return
	}

	label := h.createCase(ctx, req.GuildID, model.NewCase{
		GuildID:         snowflake(req.GuildID),
		TargetUserID:    model.Int64Ptr(snowflake(req.Target.ID)),
		ModeratorUserID: snowflake(req.ModeratorID),
		Action:          string(model.ActionTerminate),
		Reason:          req.Reason,
		Status:          model.CaseStatusCompleted,
	}, req.Target.Mention())

	embed := moderation.ActionEmbed(req.Target, "terminated", req.Reason, 0, label)
	utils.UpdateComponentMessage(s, i, "", []*discordgo.MessageEmbed{embed}, nil)
}
