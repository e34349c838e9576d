package handlers

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

const messageTimeout = 10 * time.Second

func (h *Handler) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()

	v, err := h.filter.HandleMessage(ctx, m.Message, h.botUserID(s))
	if err != nil {
		h.logger.Error("word filter failed", "guild_id", m.GuildID, "channel_id", m.ChannelID, "message_id", m.ID, "error", err)
		return
	}
	if v != nil {
		h.logger.Info("filtered message", "guild_id", m.GuildID, "user_id", m.Author.ID, "word", v.Word, "action", v.Action)
	}
}
