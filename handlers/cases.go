package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"discord-modbot/model"
	"discord-modbot/moderation"
	"discord-modbot/utils"
	"discord-modbot/utils/database"

	"github.com/bwmarrin/discordgo"
)

const (
	maxCaseEventsShown = 10
	modlogsPagePrefix  = "modlogs_page"
	modlogsPerPage     = 10
	defaultModlogLimit = 50
	invalidLabelMsg    = "Invalid case label. Use a label like W12."
)

func (h *Handler) handleCase(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.ModeratePermission) {
		return
	}
	sub, opts := subcommand(i)
	code, number, ok := utils.ParseCaseLabel(strings.TrimPrefix(strings.TrimSpace(opts.string("label")), "#"))
	if !ok {
		utils.SendErrorResponse(s, i, invalidLabelMsg)
		return
	}

	ctx, cancel := interactionContext()
	defer cancel()
	gid := snowflake(i.GuildID)
	actor := snowflake(utils.InvokingUser(i).ID)
	label := utils.FormatCaseLabel(code, number)

	switch sub {
	case "view":
		c, err := h.db.GetCaseByLabel(ctx, gid, code, number)
		if err != nil {
			h.logger.Error("failed to load case", "label", label, "error", err)
			utils.SendErrorResponse(s, i, "Failed to load case.")
			return
		}
		if c == nil {
			utils.SendErrorResponse(s, i, "Case not found.")
			return
		}
		events, err := h.db.GetCaseEvents(ctx, gid, code, number)
		if err != nil {
			h.logger.Error("failed to load case events", "label", label, "error", err)
		}
		note, _, err := h.db.GetLatestCaseNote(ctx, gid, code, number)
		if err != nil {
			h.logger.Error("failed to load case note", "label", label, "error", err)
		}
		respondEphemeralEmbed(s, i, caseDetailEmbed(c, note, events))

	case "reason":
		reason := strings.TrimSpace(opts.string("reason"))
		c, err := h.db.UpdateCaseReason(ctx, gid, code, number, actor, reason)
		if err != nil {
			h.logger.Error("failed to update case reason", "label", label, "error", err)
			utils.SendErrorResponse(s, i, "Failed to update case reason.")
			return
		}
		if c == nil {
			utils.SendErrorResponse(s, i, "Case not found.")
			return
		}
		utils.SendPublicResponse(s, i, fmt.Sprintf("Updated reason for #%s.", label))

	case "note":
		added, err := h.db.AddCaseNote(ctx, gid, code, number, actor, strings.TrimSpace(opts.string("note")))
		if err != nil {
			h.logger.Error("failed to add case note", "label", label, "error", err)
			utils.SendErrorResponse(s, i, "Failed to add note.")
			return
		}
		if !added {
			utils.SendErrorResponse(s, i, "Case not found.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Added a note to #%s.", label))
	}
}

func caseDetailEmbed(c *model.ModerationCase, note string, events []model.CaseEvent) *discordgo.MessageEmbed {
	lines := []string{
		"**Action :** " + utils.ActionDisplayName(c.Action),
	}
	if c.TargetUserID != nil {
		lines = append(lines, "**Target :** "+moderation.Mention(*c.TargetUserID))
	}
	lines = append(lines,
		"**Moderator :** "+moderation.Mention(c.ModeratorUserID),
		"**Reason :** "+utils.DefuseMentions(orDash(c.Reason)),
	)
	if c.DurationSeconds != nil {
		lines = append(lines, "**Duration :** "+utils.FormatCompactDuration(*c.DurationSeconds))
	}
	lines = append(lines,
		"**Status :** "+c.Status,
		"**Created :** "+utils.DiscordTimestamp(c.CreatedAt),
	)
	if note != "" {
		lines = append(lines, "**Latest note :** "+utils.DefuseMentions(note))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("#%s (case %d)", utils.FormatCaseLabel(c.CaseCode, c.ActionCaseNumber), c.CaseNumber),
		Description: strings.Join(lines, "\n"),
		Color:       utils.DefaultEmbedColor,
	}

	if len(events) > 0 {
		shown := events
		if len(shown) > maxCaseEventsShown {
			shown = shown[len(shown)-maxCaseEventsShown:]
		}
		history := make([]string, 0, len(shown))
		for _, ev := range shown {
			history = append(history, eventLine(ev))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("History (%d)", len(events)),
			Value: truncate(strings.Join(history, "\n"), 1024),
		})
	}
	return embed
}

func eventLine(ev model.CaseEvent) string {
	line := fmt.Sprintf("<t:%d:R> **%s** by %s", ev.CreatedAt, utils.EventDisplayName(ev.EventType), moderation.Mention(ev.ActorUserID))
	switch ev.EventType {
	case model.CaseEventReasonUpdated:
		line += fmt.Sprintf(": %s → %s", utils.DefuseMentions(orDash(deref(ev.OldReason))), utils.DefuseMentions(orDash(deref(ev.NewReason))))
	case model.CaseEventNoteAdded:
		line += ": " + utils.DefuseMentions(deref(ev.Note))
	}
	return line
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

type modlogQuery struct {
	UserID      int64
	ModeratorID int64
	Action      string
	Limit       int
}

func (q modlogQuery) filters() model.CaseFilters {
	f := model.CaseFilters{Action: q.Action, Limit: q.Limit}
	if q.UserID != 0 {
		f.TargetUserID = model.Int64Ptr(q.UserID)
	}
	if q.ModeratorID != 0 {
		f.ModeratorUserID = model.Int64Ptr(q.ModeratorID)
	}
	return f
}

// args encodes the query into pagination custom ID segments.
func (q modlogQuery) args() []string {
	action := q.Action
	if action == "" {
		action = "-"
	}
	return []string{
		strconv.FormatInt(q.UserID, 10),
		strconv.FormatInt(q.ModeratorID, 10),
		action,
		strconv.Itoa(q.Limit),
	}
}

func parseModlogQuery(args []string) (modlogQuery, bool) {
	if len(args) != 4 {
		return modlogQuery{}, false
	}
	user, err1 := strconv.ParseInt(args[0], 10, 64)
	mod, err2 := strconv.ParseInt(args[1], 10, 64)
	limit, err3 := strconv.Atoi(args[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return modlogQuery{}, false
	}
	action := args[2]
	if action == "-" {
		action = ""
	}
	return modlogQuery{UserID: user, ModeratorID: mod, Action: action, Limit: limit}, true
}

func (h *Handler) handleModlogs(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.ModeratePermission) {
		return
	}
	opts := toOptionMap(i.ApplicationCommandData().Options)
	q := modlogQuery{
		Action: strings.ToLower(strings.TrimSpace(opts.string("action"))),
		Limit:  int(opts.int("limit", defaultModlogLimit)),
	}
	if u := opts.user(i, "user"); u != nil {
		q.UserID = snowflake(u.ID)
	}
	if m := opts.user(i, "moderator"); m != nil {
		q.ModeratorID = snowflake(m.ID)
	}
	if q.Limit < 1 || q.Limit > database.MaxCaseListLimit {
		q.Limit = min(max(q.Limit, 1), database.MaxCaseListLimit)
	}

	embed, components, err := h.modlogsPage(i.GuildID, q, 1)
	if err != nil {
		h.logger.Error("failed to list cases", "guild_id", i.GuildID, "error", err)
		utils.SendErrorResponse(s, i, "Failed to load moderation logs.")
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
		h.logger.Error("failed to respond with modlogs", "error", err)
	}
}

func (h *Handler) handleModlogsPage(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	if !h.allowed(s, i, utils.ModeratePermission) {
		return
	}
	// modlogs_page:<page>:<user>:<moderator>:<action>:<limit>
	parts := strings.Split(customID, ":")
	if len(parts) < 2 {
		return
	}
	page, _ := strconv.Atoi(parts[1])
	q, ok := parseModlogQuery(parts[2:])
	if !ok {
		return
	}
	embed, components, err := h.modlogsPage(i.GuildID, q, page)
	if err != nil {
		h.logger.Error("failed to list cases", "guild_id", i.GuildID, "error", err)
		utils.SendErrorResponse(s, i, "Failed to load moderation logs.")
		return
	}
	utils.UpdateComponentMessage(s, i, "", []*discordgo.MessageEmbed{embed}, components)
}

func (h *Handler) modlogsPage(guildID string, q modlogQuery, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	ctx, cancel := interactionContext()
	defer cancel()

	cases, err := h.db.ListRecentCases(ctx, snowflake(guildID), q.filters())
	if err != nil {
		return nil, nil, err
	}
	embed, page, pages := modlogsEmbed(cases, page)
	return embed, utils.CreatePaginationComponents(page, pages, modlogsPagePrefix, q.args()...), nil
}

func modlogsEmbed(cases []model.CaseSummary, page int) (*discordgo.MessageEmbed, int, int) {
	page, start, end := utils.PageBounds(page, len(cases), modlogsPerPage)
	pages := utils.TotalPages(len(cases), modlogsPerPage)

	embed := &discordgo.MessageEmbed{
		Title:  "Moderation logs",
		Color:  utils.DefaultEmbedColor,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d case(s)", len(cases))},
	}
	if len(cases) == 0 {
		embed.Description = "No cases match."
		return embed, page, pages
	}

	lines := make([]string, 0, end-start)
	for _, c := range cases[start:end] {
		target := "-"
		if c.TargetUserID != nil {
			target = moderation.Mention(*c.TargetUserID)
		}
		lines = append(lines, fmt.Sprintf("**#%s** %s • %s • <t:%d:R>\n%s",
			utils.FormatCaseLabel(c.CaseCode, c.ActionCaseNumber),
			utils.ActionDisplayName(c.Action),
			target,
			c.CreatedAt,
			truncate(utils.DefuseMentions(orDash(c.Reason)), 120)))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed, page, pages
}
