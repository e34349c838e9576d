package utils

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// SendPrivateEmbedMessage sends a direct message with an embed to a user.
// It returns the error so callers can classify it; it also logs it.
func SendPrivateEmbedMessage(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) error {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		slog.Debug("could not open DM channel", "user_id", userID, "error", err)
		return err
	}
	_, err = s.ChannelMessageSendEmbed(channel.ID, embed)
	if err != nil {
		slog.Debug("could not send DM", "user_id", userID, "error", err)
	}
	return err
}
