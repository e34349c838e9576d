package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"discord-modbot/model"
	"discord-modbot/moderation"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	warningsPagePrefix  = "warnings_page"
	warningsPerPage     = 5
	defaultWarningsDays = 30
	unwarnConfirmPrefix = "unwarn_confirm:"
	unwarnCancelPrefix  = "unwarn_cancel:"
	allWarningsToken    = "all"
	secondsPerDay       = 86400
)

// checkTarget rejects moderating yourself or a bot.
func checkTarget(moderator, target *discordgo.User, verb string) string {
	if target == nil {
		return "Pick a member."
	}
	if moderator != nil && moderator.ID == target.ID {
		return fmt.Sprintf("You can't %s yourself.", verb)
	}
	if target.Bot {
		return "You can't use moderation actions on bots or application accounts."
	}
	return ""
}

func (h *Handler) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.ModeratePermission) {
		return
	}
	opts := toOptionMap(i.ApplicationCommandData().Options)
	moderator := utils.InvokingUser(i)
	target := opts.user(i, "user")
	if msg := checkTarget(moderator, target, "warn"); msg != "" {
		utils.SendErrorResponse(s, i, msg)
		return
	}
	reason := strings.TrimSpace(opts.string("reason"))

	if err := utils.DeferResponse(s, i, false); err != nil {
		h.logger.Error("failed to defer warn response", "error", err)
		return
	}
	ctx, cancel := interactionContext()
	defer cancel()

	gid, uid, mid := snowflake(i.GuildID), snowflake(target.ID), snowflake(moderator.ID)
	record, err := h.db.RecordWarning(ctx, gid, uid, mid, reason)
	if err != nil {
		h.logger.Error("failed to record warning", "guild_id", i.GuildID, "user_id", target.ID, "error", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to record warning.")
		return
	}

	label := h.createCase(ctx, i.GuildID, model.NewCase{
		GuildID:         gid,
		TargetUserID:    model.Int64Ptr(uid),
		ModeratorUserID: mid,
		Action:          string(model.ActionWarn),
		Reason:          reason,
	}, target.Mention())

	h.sendTargetDM(ctx, i.GuildID, target, "warned", reason, 0)

	embed := moderation.ActionEmbed(target, "warned", reason, 0, label)
	embed.Title = fmt.Sprintf("Warning #%d", record.WarnNumber)
	utils.SendFollowUpEmbed(s, i.Interaction, embed, nil)

	if result := h.engine.EscalateQuietly(ctx, i.GuildID, target, h.botUserID(s)); result != nil {
		msg := fmt.Sprintf("%s reached the warning threshold and was automatically timed out for %s.",
			target.Mention(), utils.FormatCompactDuration(result.TimeoutSeconds))
		_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
			Content:         msg,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		})
		if err != nil {
			h.logger.Error("failed to send escalation follow-up", "error", err)
		}
	}
}

// parseWarningsWindow accepts a number of days, a duration such as 12h, or
// "all". It returns the window in seconds, 0 meaning no limit.
func parseWarningsWindow(raw string) (int64, string, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch {
	case raw == "":
		return defaultWarningsDays * secondsPerDay, fmt.Sprintf("last %d day(s)", defaultWarningsDays), true
	case raw == allWarningsToken:
		return 0, "all time", true
	case utils.HasDurationUnit(raw):
		seconds, ok := utils.ParseDurationSeconds(raw)
		if !ok {
			return 0, "", false
		}
		return seconds, "last " + utils.FormatCompactDuration(seconds), true
	}
	days, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || days < 1 || days > 3650 {
		return 0, "", false
	}
	return days * secondsPerDay, fmt.Sprintf("last %d day(s)", days), true
}

func windowLabel(window int64) string {
	if window == 0 {
		return "all time"
	}
	if window%secondsPerDay == 0 {
		return fmt.Sprintf("last %d day(s)", window/secondsPerDay)
	}
	return "last " + utils.FormatCompactDuration(window)
}

func (h *Handler) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.ModeratePermission) {
		return
	}
	opts := toOptionMap(i.ApplicationCommandData().Options)
	target := opts.user(i, "user")
	window, _, ok := parseWarningsWindow(opts.string("window"))
	if !ok {
		utils.SendErrorResponse(s, i, "Window must be a number of days, a duration like 12h, or \"all\".")
		return
	}

	embed, components, err := h.warningsPage(i.GuildID, target, window, 1)
	if err != nil {
		h.logger.Error("failed to load warnings", "guild_id", i.GuildID, "user_id", target.ID, "error", err)
		utils.SendErrorResponse(s, i, "Failed to load warnings.")
		return
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Error("failed to respond with warnings", "error", err)
	}
}

func (h *Handler) handleWarningsPage(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	if !h.allowed(s, i, utils.ModeratePermission) {
		return
	}
	// warnings_page:<page>:<user>:<window>
	parts := strings.Split(customID, ":")
	if len(parts) != 4 {
		return
	}
	page, _ := strconv.Atoi(parts[1])
	window, _ := strconv.ParseInt(parts[3], 10, 64)
	target := &discordgo.User{ID: parts[2]}

	embed, components, err := h.warningsPage(i.GuildID, target, window, page)
	if err != nil {
		h.logger.Error("failed to load warnings page", "error", err)
		utils.SendErrorResponse(s, i, "Failed to load warnings.")
		return
	}
	utils.UpdateComponentMessage(s, i, "", []*discordgo.MessageEmbed{embed}, components)
}

func (h *Handler) warningsPage(guildID string, target *discordgo.User, window int64, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	ctx, cancel := interactionContext()
	defer cancel()

	gid, uid := snowflake(guildID), snowflake(target.ID)
	var since int64
	if window > 0 {
		since = h.db.Now().Unix() - window
	}
	entries, err := h.db.WarningsSince(ctx, gid, uid, since)
	if err != nil {
		return nil, nil, err
	}
	total, err := h.db.CountAllWarnings(ctx, gid, uid)
	if err != nil {
		return nil, nil, err
	}

	embed, page, pages := warningsEmbed(target, entries, total-int64(len(entries)), page, windowLabel(window))
	components := utils.CreatePaginationComponents(page, pages, warningsPagePrefix, target.ID, strconv.FormatInt(window, 10))
	return embed, components, nil
}

// warningsEmbed renders one page. offset is the number of older warnings
// outside the window, so displayed numbers match /unwarn.
func warningsEmbed(target *discordgo.User, entries []model.WarningEntry, offset int64, page int, label string) (*discordgo.MessageEmbed, int, int) {
	page, start, end := utils.PageBounds(page, len(entries), warningsPerPage)
	pages := utils.TotalPages(len(entries), warningsPerPage)

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Warnings for %s", moderation.DisplayName(target)),
		Color: utils.DefaultEmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d warning(s) in %s", len(entries), label),
		},
	}
	if len(entries) == 0 {
		embed.Description = fmt.Sprintf("%s has no warnings in %s.", target.Mention(), label)
		return embed, page, pages
	}

	lines := make([]string, 0, end-start)
	for idx := start; idx < end; idx++ {
		w := entries[idx]
		lines = append(lines, fmt.Sprintf("**#%d** %s\n**Reason :** %s\n**Moderator :** %s",
			offset+int64(idx)+1,
			fmt.Sprintf("<t:%d:R>", w.WarnedAt),
			utils.DefuseMentions(w.Reason),
			moderation.Mention(w.ModeratorID)))
	}
	embed.Description = strings.Join(lines, "\n\n")
	return embed, page, pages
}

type unwarnRequest struct {
	GuildID     string
	Target      *discordgo.User
	ModeratorID string
	Reason      string
}

func (h *Handler) handleUnwarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.ModeratePermission) {
		return
	}
	opts := toOptionMap(i.ApplicationCommandData().Options)
	moderator := utils.InvokingUser(i)
	target := opts.user(i, "user")
	if msg := checkTarget(moderator, target, "unwarn"); msg != "" {
		utils.SendErrorResponse(s, i, msg)
		return
	}
	reason := strings.TrimSpace(opts.string("reason"))
	raw := strings.ToLower(strings.TrimSpace(opts.string("target")))

	ctx, cancel := interactionContext()
	defer cancel()
	gid, uid := snowflake(i.GuildID), snowflake(target.ID)

	if raw == allWarningsToken {
		total, err := h.db.CountAllWarnings(ctx, gid, uid)
		if err != nil {
			h.logger.Error("failed to count warnings", "error", err)
			utils.SendErrorResponse(s, i, "Failed to load warnings.")
			return
		}
		if total == 0 {
			utils.SendErrorResponse(s, i, fmt.Sprintf("%s has no warnings.", target.Mention()))
			return
		}
		h.askUnwarnAll(s, i, unwarnRequest{GuildID: i.GuildID, Target: target, ModeratorID: moderator.ID, Reason: reason}, total)
		return
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		utils.SendErrorResponse(s, i, "Target must be a warning number from /warnings or \"all\".")
		return
	}
	removed, err := h.db.RemoveWarningByNumber(ctx, gid, uid, n)
	if err != nil {
		h.logger.Error("failed to remove warning", "error", err)
		utils.SendErrorResponse(s, i, "Failed to remove warning.")
		return
	}
	if !removed {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Warning #%d not found.", n))
		return
	}

	caseReason := fmt.Sprintf("Removed warning #%d", n)
	if reason != "" {
		caseReason += ": " + reason
	}
	label := h.createCase(ctx, i.GuildID, model.NewCase{
		GuildID:         gid,
		TargetUserID:    model.Int64Ptr(uid),
		ModeratorUserID: snowflake(moderator.ID),
		Action:          string(model.ActionUnwarn),
		Reason:          caseReason,
		Status:          model.CaseStatusCompleted,
	}, target.Mention())

	embed := moderation.ActionEmbed(target, "unwarned", caseReason, 0, label)
	respondEmbed(s, i, embed)
}

func (h *Handler) askUnwarnAll(s *discordgo.Session, i *discordgo.InteractionCreate, req unwarnRequest, total int64) {
	token := uuid.NewString()
	h.pendingUnwarn.Put(token, req)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Remove all %d warning(s) from %s? This can't be undone. Expires in %s.",
				total, req.Target.Mention(), utils.FormatCompactDuration(int64(confirmationTTL.Seconds()))),
			Flags: discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Remove all", Style: discordgo.DangerButton, CustomID: unwarnConfirmPrefix + token},
					discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: unwarnCancelPrefix + token},
				}},
			},
		},
	})
	if err != nil {
		h.logger.Error("failed to send unwarn confirmation", "error", err)
	}
}

func (h *Handler) handleUnwarnConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	confirmed := strings.HasPrefix(customID, unwarnConfirmPrefix)
	token := strings.TrimPrefix(strings.TrimPrefix(customID, unwarnConfirmPrefix), unwarnCancelPrefix)

	req, ok := h.pendingUnwarn.Take(token)
	if !ok {
		utils.UpdateComponentMessage(s, i, "This confirmation has expired.", nil, nil)
		return
	}
	clicker := utils.InvokingUser(i)
	if clicker == nil || clicker.ID != req.ModeratorID {
		h.pendingUnwarn.Put(token, req)
		utils.SendErrorResponse(s, i, "Only the moderator who ran the command can confirm it.")
		return
	}
	if !confirmed {
		utils.UpdateComponentMessage(s, i, "Cancelled.", nil, nil)
		return
	}

	ctx, cancel := interactionContext()
	defer cancel()
	gid, uid := snowflake(req.GuildID), snowflake(req.Target.ID)

	removed, err := h.db.ClearWarnings(ctx, gid, uid)
	if err != nil {
		h.logger.Error("failed to clear warnings", "error", err)
		utils.UpdateComponentMessage(s, i, "❌ Failed to clear warnings.", nil, nil)
		return
	}

	caseReason := fmt.Sprintf("Removed all warnings (%d)", removed)
	if req.Reason != "" {
		caseReason += ": " + req.Reason
	}
	label := h.createCase(ctx, req.GuildID, model.NewCase{
		GuildID:         gid,
		TargetUserID:    model.Int64Ptr(uid),
		ModeratorUserID: snowflake(req.ModeratorID),
		Action:          string(model.ActionUnwarnAll),
		Reason:          caseReason,
		Status:          model.CaseStatusCompleted,
	}, req.Target.Mention())

	embed := moderation.ActionEmbed(req.Target, "unwarned", caseReason, 0, label)
	utils.UpdateComponentMessage(s, i, "", []*discordgo.MessageEmbed{embed}, nil)
}
