package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	// MaxPurge is the most messages one purge fetches.
	MaxPurge = 100
	// Discord refuses to bulk delete anything older than two weeks.
	bulkDeleteMaxAge = 14 * 24 * time.Hour
)

type channelMessenger interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// purgeMessages deletes up to limit of the newest messages in channelID and
// returns how many were deleted. Messages too old for bulk deletion are
// skipped.
func purgeMessages(ctx context.Context, api channelMessenger, channelID string, limit int, now time.Time) (int, error) {
	limit = max(1, min(limit, MaxPurge))

	messages, err := api.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch messages in channel %s: %w", channelID, err)
	}

	cutoff := now.Add(-bulkDeleteMaxAge)
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Timestamp.IsZero() || m.Timestamp.After(cutoff) {
			ids = append(ids, m.ID)
		}
	}

	switch len(ids) {
	case 0:
		return 0, nil
	case 1:
		err = api.ChannelMessageDelete(channelID, ids[0], discordgo.WithContext(ctx))
	default:
		err = api.ChannelMessagesBulkDelete(channelID, ids, discordgo.WithContext(ctx))
	}
	if err != nil {
		return 0, fmt.Errorf("failed to delete messages in channel %s: %w", channelID, err)
	}
	return len(ids), nil
}
