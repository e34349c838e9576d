package handlers

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"discord-modbot/model"
	"discord-modbot/moderation"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) handleEscalation(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.ManagePermission) {
		return
	}
	sub, opts := subcommand(i)
	ctx, cancel := interactionContext()
	defer cancel()
	gid := snowflake(i.GuildID)

	var (
		err error
		msg string
	)
	switch sub {
	case "enable":
		err = h.db.SetEscalationEnabled(ctx, gid, true)
		msg = "Automatic escalation enabled."
	case "disable":
		err = h.db.SetEscalationEnabled(ctx, gid, false)
		msg = "Automatic escalation disabled."
	case "warns":
		count := opts.int("count", model.DefaultWarnThreshold)
		if count < 1 {
			utils.SendErrorResponse(s, i, "The threshold must be at least 1.")
			return
		}
		err = h.db.SetWarnThreshold(ctx, gid, count)
		msg = fmt.Sprintf("Members are now timed out after %d warning(s) in the warn window.", count)
	case "warnwindow", "timeoutwindow":
		seconds, ok := utils.ParseDurationSeconds(opts.string("duration"))
		if !ok {
			utils.SendErrorResponse(s, i, "Invalid duration. Use something like 12h, 1d or 7d.")
			return
		}
		if sub == "warnwindow" {
			err = h.db.SetWarnWindow(ctx, gid, seconds)
			msg = "Warnings are now counted over the last " + utils.FormatCompactDuration(seconds) + "."
		} else {
			err = h.db.SetTimeoutWindow(ctx, gid, seconds)
			msg = "Earlier timeouts now raise the tier for " + utils.FormatCompactDuration(seconds) + "."
		}
	case "status":
		cfg, err := h.db.GetEscalationConfig(ctx, gid)
		if err != nil {
			h.logger.Error("failed to read escalation config", "guild_id", i.GuildID, "error", err)
			utils.SendErrorResponse(s, i, "Failed to read escalation settings.")
			return
		}
		respondEphemeralEmbed(s, i, escalationStatusEmbed(gid, cfg))
		return
	default:
		return
	}

	if err != nil {
		h.logger.Error("failed to update escalation config", "guild_id", i.GuildID, "sub", sub, "error", err)
		utils.SendErrorResponse(s, i, "Failed to update escalation settings.")
		return
	}
	utils.SendSimpleResponse(s, i, msg)
}

// escalationStatusEmbed shows the defaults when the guild has no settings.
func escalationStatusEmbed(guildID int64, cfg *model.EscalationConfig) *discordgo.MessageEmbed {
	effective := model.DefaultEscalationConfig(guildID)
	if cfg != nil {
		effective = *cfg
	}
	state := "Disabled"
	if effective.Enabled {
		state = "Enabled"
	}

	tiers := make([]string, 0, 5)
	for n := int64(0); n < 5; n++ {
		label := strconv.FormatInt(n, 10)
		if n == 4 {
			label += "+"
		}
		tiers = append(tiers, fmt.Sprintf("%s prior → %s", label, utils.FormatCompactDuration(moderation.EscalationTimeoutSeconds(n))))
	}

	return &discordgo.MessageEmbed{
		Title: "Escalation settings",
		Color: utils.DefaultEmbedColor,
		Description: strings.Join([]string{
			"**Status :** " + state,
			fmt.Sprintf("**Threshold :** %d warning(s)", effective.WarnThreshold),
			"**Warn window :** " + utils.FormatCompactDuration(effective.WarnWindowSeconds),
			"**Timeout window :** " + utils.FormatCompactDuration(effective.TimeoutWindowSeconds),
		}, "\n"),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Timeout tiers", Value: strings.Join(tiers, "\n")},
		},
	}
}

func (h *Handler) handleModlogChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.ManagePermission) {
		return
	}
	sub, opts := subcommand(i)
	ctx, cancel := interactionContext()
	defer cancel()
	gid := snowflake(i.GuildID)

	switch sub {
	case "set":
		opt, ok := opts["channel"]
		if !ok {
			return
		}
		channelID, _ := opt.Value.(string)
		if err := h.db.SetModlogChannelID(ctx, gid, snowflake(channelID)); err != nil {
			h.logger.Error("failed to set modlog channel", "guild_id", i.GuildID, "error", err)
			utils.SendErrorResponse(s, i, "Failed to set the modlog channel.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Cases will be published to <#%s>.", channelID))
	case "clear":
		if err := h.db.ClearModlogChannelID(ctx, gid); err != nil {
			h.logger.Error("failed to clear modlog channel", "guild_id", i.GuildID, "error", err)
			utils.SendErrorResponse(s, i, "Failed to clear the modlog channel.")
			return
		}
		utils.SendSimpleResponse(s, i, "Cases will no longer be published.")
	case "show":
		channelID, err := h.db.GetModlogChannelID(ctx, gid)
		if err != nil {
			h.logger.Error("failed to read modlog channel", "guild_id", i.GuildID, "error", err)
			utils.SendErrorResponse(s, i, "Failed to read the modlog channel.")
			return
		}
		if channelID == nil {
			utils.SendSimpleResponse(s, i, "No modlog channel is set.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Cases are published to <#%d>.", *channelID))
	}
}

func (h *Handler) handleWordFilter(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.allowed(s, i, utils.ManagePermission) {
		return
	}
	sub, opts := subcommand(i)
	ctx, cancel := interactionContext()
	defer cancel()
	gid := snowflake(i.GuildID)
	word := strings.ToLower(strings.TrimSpace(opts.string("word")))

	var (
		err error
		msg string
	)
	switch sub {
	case "enable":
		err = h.db.SetWordFilterEnabled(ctx, gid, true)
		msg = "Word filter enabled."
	case "disable":
		err = h.db.SetWordFilterEnabled(ctx, gid, false)
		msg = "Word filter disabled."
	case "action":
		action := opts.string("action")
		if !slices.Contains(model.ValidFilterActions, action) {
			utils.SendErrorResponse(s, i, "Unknown filter action.")
			return
		}
		err = h.db.SetWordFilterAction(ctx, gid, action)
		msg = "Filter action set to " + model.FilterActionLabel(action) + "."
	case "add":
		if word == "" {
			utils.SendErrorResponse(s, i, "Give a word or phrase.")
			return
		}
		var added bool
		if added, err = h.db.AddFilterWord(ctx, gid, word); err == nil {
			msg = fmt.Sprintf("Added `%s` to the filter.", word)
			if !added {
				msg = fmt.Sprintf("`%s` is already filtered.", word)
			}
		}
	case "remove":
		var removed bool
		if removed, err = h.db.RemoveFilterWord(ctx, gid, word); err == nil {
			msg = fmt.Sprintf("Removed `%s` from the filter.", word)
			if !removed {
				msg = fmt.Sprintf("`%s` is not in the filter.", word)
			}
		}
	case "list":
		cfg, err := h.db.GetWordFilterConfig(ctx, gid)
		if err != nil {
			h.logger.Error("failed to read word filter config", "guild_id", i.GuildID, "error", err)
			utils.SendErrorResponse(s, i, "Failed to read word filter settings.")
			return
		}
		words, err := h.db.ListFilterWords(ctx, gid)
		if err != nil {
			h.logger.Error("failed to list filter words", "guild_id", i.GuildID, "error", err)
			utils.SendErrorResponse(s, i, "Failed to read word filter settings.")
			return
		}
		respondEphemeralEmbed(s, i, wordFilterEmbed(cfg, words))
		return
	default:
		return
	}

	if err != nil {
		h.logger.Error("failed to update word filter", "guild_id", i.GuildID, "sub", sub, "error", err)
		utils.SendErrorResponse(s, i, "Failed to update the word filter.")
		return
	}
	utils.SendSimpleResponse(s, i, msg)
}

func wordFilterEmbed(cfg *model.WordFilterConfig, words []model.WordFilterWord) *discordgo.MessageEmbed {
	state, action := "Disabled", model.DefaultFilterAction
	if cfg != nil {
		if cfg.Enabled {
			state = "Enabled"
		}
		if cfg.Action != "" {
			action = cfg.Action
		}
	}

	list := "No words configured."
	if len(words) > 0 {
		quoted := make([]string, 0, len(words))
		for _, w := range words {
			quoted = append(quoted, "`"+w.Word+"`")
		}
		list = truncate(strings.Join(quoted, ", "), 1024)
	}

	return &discordgo.MessageEmbed{
		Title:       "Word filter",
		Color:       utils.DefaultEmbedColor,
		Description: fmt.Sprintf("**Status :** %s\n**Action :** %s", state, model.FilterActionLabel(action)),
		Fields: []*discordgo.MessageEmbedField{
			{Name: fmt.Sprintf("Words (%d)", len(words)), Value: list},
		},
	}
}
