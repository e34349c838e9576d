// Package moderation turns repeated warnings into automatic timeouts and
// carries the platform, modlog and word filter plumbing around it.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"discord-modbot/metrics"
	"discord-modbot/model"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// timeoutTiers is indexed by the number of timeouts already inside the
// timeout window. The last entry repeats for every higher count.
var timeoutTiers = []int64{
	5 * 60,
	30 * 60,
	2 * 60 * 60,
	24 * 60 * 60,
	7 * 24 * 60 * 60,
}

// EscalationTimeoutSeconds maps a prior-timeout count to a timeout length.
func EscalationTimeoutSeconds(previous int64) int64 {
	if previous < 0 {
		previous = 0
	}
	if previous >= int64(len(timeoutTiers)) {
		return timeoutTiers[len(timeoutTiers)-1]
	}
	return timeoutTiers[previous]
}

// EscalationStore is the slice of the database the engine reads and writes.
type EscalationStore interface {
	GetEscalationConfig(ctx context.Context, guildID int64) (*model.EscalationConfig, error)
	CountWarningsSince(ctx context.Context, guildID, userID, since int64) (int64, error)
	CountTimeoutCasesSince(ctx context.Context, guildID, userID, since int64) (int64, error)
	CreateCase(ctx context.Context, nc model.NewCase) (*model.CaseSummary, error)
}

// Engine evaluates a member's recent warnings after each new one.
type Engine struct {
	store     EscalationStore
	platform  Platform
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
	guildName func(guildID string) string
}

func NewEngine(store EscalationStore, platform Platform, notifier Notifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:     store,
		platform:  platform,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
		guildName: func(guildID string) string { return "Server " + guildID },
	}
}

// SetClock replaces the time source. Used by tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// SetGuildNamer sets how DMs name the guild.
func (e *Engine) SetGuildNamer(fn func(guildID string) string) {
	e.guildName = fn
}

// CheckAndEscalate times the target out when they have reached the guild's
// warning threshold within the warn window. The timeout length grows with
// the number of timeouts already inside the timeout window.
//
// It returns (nil, nil) when escalation is disabled or the threshold is not
// met. Errors are store failures; platform and modlog failures are logged.
// A member already at the threshold escalates again on every further warning
// in the window.
func (e *Engine) CheckAndEscalate(ctx context.Context, guildID string, target *discordgo.User, botUserID string) (*model.EscalationResult, error) {
	gid, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid guild id %q: %w", guildID, err)
	}
	uid, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", target.ID, err)
	}

	cfg, err := e.store.GetEscalationConfig(ctx, gid)
	if err != nil {
		return nil, fmt.Errorf("failed to read escalation config: %w", err)
	}
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	now := e.now()
	warnCount, err := e.store.CountWarningsSince(ctx, gid, uid, now.Unix()-cfg.WarnWindowSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to count warnings for escalation: %w", err)
	}
	if warnCount < cfg.WarnThreshold {
		return nil, nil
	}

	previous, err := e.store.CountTimeoutCasesSince(ctx, gid, uid, now.Unix()-cfg.TimeoutWindowSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to count timeouts for escalation: %w", err)
	}

	seconds := EscalationTimeoutSeconds(previous)
	result := &model.EscalationResult{TimedOut: true, TimeoutSeconds: seconds, Tier: previous}
	reason := fmt.Sprintf("Auto-escalation: %d warning(s) in %s", warnCount, utils.FormatCompactDuration(cfg.WarnWindowSeconds))

	e.logger.InfoContext(ctx, "escalation triggered: auto-timeout",
		"guild_id", guildID, "user_id", target.ID,
		"warn_count", warnCount, "timeout_count", previous, "timeout_seconds", seconds)
	metrics.EscalationTriggered(ctx, previous)

	until := now.Add(time.Duration(seconds) * time.Second)
	if err := e.platform.TimeoutMember(ctx, guildID, target.ID, until, reason); err != nil {
		// The case is still recorded so the intent is auditable.
		LogPlatformError(ctx, e.logger, "auto_timeout", err, "guild_id", guildID, "user_id", target.ID)
	}

	moderatorID, _ := strconv.ParseInt(botUserID, 10, 64)
	c, err := e.store.CreateCase(ctx, model.NewCase{
		GuildID:         gid,
		TargetUserID:    model.Int64Ptr(uid),
		ModeratorUserID: moderatorID,
		Action:          string(model.ActionAutoTimeout),
		Reason:          reason,
		Status:          model.CaseStatusCompleted,
		DurationSeconds: model.Int64Ptr(seconds),
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to create auto-timeout case", "guild_id", guildID, "user_id", target.ID, "error", err)
		return result, nil
	}

	PublishQuietly(ctx, e.notifier, e.logger, guildID, c, target.Mention())

	dm := TargetDMEmbed(e.guildName(guildID), "automatically timed out", reason, seconds)
	if err := e.platform.SendDM(ctx, target.ID, dm); err != nil {
		LogPlatformError(ctx, e.logger, "dm", err, "user_id", target.ID)
	}

	return result, nil
}

// EscalateQuietly runs CheckAndEscalate and logs store failures instead of
// returning them, so the triggering warning still succeeds.
func (e *Engine) EscalateQuietly(ctx context.Context, guildID string, target *discordgo.User, botUserID string) *model.EscalationResult {
	if e == nil {
		return nil
	}
	result, err := e.CheckAndEscalate(ctx, guildID, target, botUserID)
	if err != nil {
		e.logger.ErrorContext(ctx, "escalation check failed", "guild_id", guildID, "user_id", target.ID, "error", err)
		return nil
	}
	return result
}
