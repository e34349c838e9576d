package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "warn":
			h.handleWarn(s, i)
		case "warnings":
			h.handleWarnings(s, i)
		case "unwarn":
			h.handleUnwarn(s, i)
		case "case":
			h.handleCase(s, i)
		case "modlogs":
			h.handleModlogs(s, i)
		case "timeout":
			h.handleTimeout(s, i)
		case "untimeout":
			h.handleUntimeout(s, i)
		case "kick":
			h.handleKick(s, i)
		case "ban":
			h.handleBan(s, i)
		case "unban":
			h.handleUnban(s, i)
		case "purge":
			h.handlePurge(s, i)
		case "terminate":
			h.handleTerminate(s, i)
		case "escalation":
			h.handleEscalation(s, i)
		case "modlogchannel":
			h.handleModlogChannel(s, i)
		case "wordfilter":
			h.handleWordFilter(s, i)
		case "botinfo":
			h.handleBotInfo(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(customID, warningsPagePrefix+":"):
			h.handleWarningsPage(s, i, customID)
		case strings.HasPrefix(customID, modlogsPagePrefix+":"):
			h.handleModlogsPage(s, i, customID)
		case strings.HasPrefix(customID, unwarnConfirmPrefix), strings.HasPrefix(customID, unwarnCancelPrefix):
			h.handleUnwarnConfirmation(s, i, customID)
		case strings.HasPrefix(customID, terminateConfirmPrefix), strings.HasPrefix(customID, terminateCancelPrefix):
			h.handleTerminateConfirmation(s, i, customID)
		}
	}
}
