package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"discord-modbot/model"

	"github.com/bwmarrin/discordgo"
)

// Notifier publishes a freshly created case.
type Notifier interface {
	PublishCase(ctx context.Context, guildID string, c *model.CaseSummary, target string) error
}

// ModlogStore resolves the guild's modlog channel.
type ModlogStore interface {
	GetModlogChannelID(ctx context.Context, guildID int64) (*int64, error)
}

// EmbedSender is satisfied by *discordgo.Session.
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ModlogPublisher posts case embeds to the configured modlog channel.
// Guilds without a channel are skipped silently.
type ModlogPublisher struct {
	store  ModlogStore
	sender EmbedSender
	logger *slog.Logger
}

func NewModlogPublisher(store ModlogStore, sender EmbedSender, logger *slog.Logger) *ModlogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModlogPublisher{store: store, sender: sender, logger: logger}
}

func (p *ModlogPublisher) PublishCase(ctx context.Context, guildID string, c *model.CaseSummary, target string) error {
	gid, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid guild id %q: %w", guildID, err)
	}

	channelID, err := p.store.GetModlogChannelID(ctx, gid)
	if err != nil {
		return fmt.Errorf("failed to read modlog channel: %w", err)
	}
	if channelID == nil {
		return nil
	}

	embed := CaseEmbed(c, target)
	if _, err := p.sender.ChannelMessageSendEmbed(strconv.FormatInt(*channelID, 10), embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send modlog embed: %w", err)
	}
	p.logger.DebugContext(ctx, "case published to modlog", "guild_id", guildID, "case", embed.Title)
	return nil
}

// PublishQuietly publishes and logs any failure. The case is already stored,
// so a failed publish never affects the caller.
func PublishQuietly(ctx context.Context, n Notifier, logger *slog.Logger, guildID string, c *model.CaseSummary, target string) {
	if n == nil || c == nil {
		return
	}
	if err := n.PublishCase(ctx, guildID, c, target); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(ctx, "failed to publish case to modlog channel", "guild_id", guildID, "error", err)
	}
}
