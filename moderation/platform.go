package moderation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"discord-modbot/metrics"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// Platform applies the actions the escalation engine needs.
type Platform interface {
	TimeoutMember(ctx context.Context, guildID, userID string, until time.Time, reason string) error
	SendDM(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error
}

// Enforcer is the full set of member actions used by commands and the word
// filter.
type Enforcer interface {
	Platform
	RemoveTimeout(ctx context.Context, guildID, userID, reason string) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error
	Unban(ctx context.Context, guildID, userID, reason string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	PurgeMessages(ctx context.Context, channelID string, limit int) (int, error)
}

// DiscordPlatform performs actions through a discordgo session.
type DiscordPlatform struct {
	session *discordgo.Session
}

func NewDiscordPlatform(s *discordgo.Session) *DiscordPlatform {
	return &DiscordPlatform{session: s}
}

func (p *DiscordPlatform) TimeoutMember(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	return p.session.GuildMemberTimeout(guildID, userID, &until,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (p *DiscordPlatform) RemoveTimeout(ctx context.Context, guildID, userID, reason string) error {
	return p.session.GuildMemberTimeout(guildID, userID, nil,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (p *DiscordPlatform) Kick(ctx context.Context, guildID, userID, reason string) error {
	return p.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error {
	return p.session.GuildBanCreateWithReason(guildID, userID, reason, deleteMessageDays, discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) Unban(ctx context.Context, guildID, userID, reason string) error {
	return p.session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (p *DiscordPlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (p *DiscordPlatform) PurgeMessages(ctx context.Context, channelID string, limit int) (int, error) {
	return purgeMessages(ctx, p.session, channelID, limit, time.Now())
}

func (p *DiscordPlatform) SendDM(_ context.Context, userID string, embed *discordgo.MessageEmbed) error {
	return utils.SendPrivateEmbedMessage(p.session, userID, embed)
}

// GuildName resolves a guild's name from state, then REST, falling back to
// "Server <id>".
func (p *DiscordPlatform) GuildName(guildID string) string {
	if p.session.State != nil {
		if g, err := p.session.State.Guild(guildID); err == nil && g.Name != "" {
			return g.Name
		}
	}
	if g, err := p.session.Guild(guildID); err == nil && g.Name != "" {
		return g.Name
	}
	return "Server " + guildID
}

// IsMissingPermissions reports whether err is a Discord 403 or a
// "Missing Permissions" (50013) response.
func IsMissingPermissions(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return true
	}
	return restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMissingPermissions
}

// LogPlatformError logs a failed platform action. Missing permissions is an
// expected condition (role hierarchy, closed DMs) and logs at warn.
func LogPlatformError(ctx context.Context, logger *slog.Logger, op string, err error, attrs ...any) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	attrs = append(attrs, "op", op)
	if IsMissingPermissions(err) {
		metrics.PlatformFailure(ctx, op, "missing_permissions")
		logger.WarnContext(ctx, "missing permissions for platform action", attrs...)
		return
	}
	metrics.PlatformFailure(ctx, op, "error")
	logger.ErrorContext(ctx, "platform action failed", append(attrs, "error", err)...)
}
