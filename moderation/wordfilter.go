package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"discord-modbot/metrics"
	"discord-modbot/model"

	"github.com/bwmarrin/discordgo"
)

// WordFilterTimeoutSeconds is the timeout applied by timeout_delete_and_log.
const WordFilterTimeoutSeconds = 300

// Tokenize lowercases s and splits it on anything that is not a letter or
// digit.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// MatchWord returns the first filter word that appears in content as whole
// tokens. Multi-word entries must appear as consecutive tokens.
func MatchWord(content string, words []string) (string, bool) {
	tokens := Tokenize(content)
	if len(tokens) == 0 {
		return "", false
	}
	for _, word := range words {
		needle := Tokenize(word)
		if len(needle) == 0 {
			continue
		}
		if containsRun(tokens, needle) {
			return word, true
		}
	}
	return "", false
}

func containsRun(tokens, needle []string) bool {
outer:
	for i := 0; i+len(needle) <= len(tokens); i++ {
		for j := range needle {
			if tokens[i+j] != needle[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

// FilterStore is what the word filter reads and writes.
type FilterStore interface {
	GetWordFilterIfEnabled(ctx context.Context, guildID int64) (*model.WordFilterConfig, error)
	GetFilterWords(ctx context.Context, guildID int64) ([]string, error)
	RecordWarning(ctx context.Context, guildID, userID, moderatorID int64, reason string) (*model.WarningRecord, error)
	CreateCase(ctx context.Context, nc model.NewCase) (*model.CaseSummary, error)
}

// WordFilter checks guild messages against the guild's word list and applies
// the configured action.
type WordFilter struct {
	store     FilterStore
	platform  Enforcer
	notifier  Notifier
	engine    *Engine
	logger    *slog.Logger
	now       func() time.Time
	guildName func(guildID string) string
}

func NewWordFilter(store FilterStore, platform Enforcer, notifier Notifier, engine *Engine, logger *slog.Logger) *WordFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordFilter{
		store:     store,
		platform:  platform,
		notifier:  notifier,
		engine:    engine,
		logger:    logger,
		now:       time.Now,
		guildName: func(guildID string) string { return "Server " + guildID },
	}
}

func (f *WordFilter) SetGuildNamer(fn func(guildID string) string) {
	f.guildName = fn
}

// Violation describes a handled match.
type Violation struct {
	Word   string
	Action string
	Case   *model.CaseSummary
}

// HandleMessage returns nil, nil when the message is ignored or clean.
func (f *WordFilter) HandleMessage(ctx context.Context, m *discordgo.Message, botUserID string) (*Violation, error) {
	if m.Author == nil || m.Author.Bot || m.WebhookID != "" || m.GuildID == "" {
		return nil, nil
	}

	gid, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid guild id %q: %w", m.GuildID, err)
	}
	uid, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", m.Author.ID, err)
	}

	cfg, err := f.store.GetWordFilterIfEnabled(ctx, gid)
	if err != nil {
		return nil, fmt.Errorf("failed to read word filter config: %w", err)
	}
	if cfg == nil {
		return nil, nil
	}

	words, err := f.store.GetFilterWords(ctx, gid)
	if err != nil {
		return nil, fmt.Errorf("failed to load word filter list: %w", err)
	}
	word, ok := MatchWord(m.Content, words)
	if !ok {
		return nil, nil
	}

	action := cfg.Action
	metrics.WordFilterHit(ctx, action)
	moderatorID, _ := strconv.ParseInt(botUserID, 10, 64)
	reason := "Word filter: " + word

	var duration *int64
	switch action {
	case model.FilterDeleteAndLog:
		f.deleteMessage(ctx, m)
	case model.FilterWarnAndLog:
		f.deleteMessage(ctx, m)
		if _, err := f.store.RecordWarning(ctx, gid, uid, moderatorID, reason); err != nil {
			f.logger.ErrorContext(ctx, "failed to record warning for word filter violation", "guild_id", m.GuildID, "user_id", m.Author.ID, "error", err)
		}
		f.sendDM(ctx, m, "warned", reason, 0)
		f.engine.EscalateQuietly(ctx, m.GuildID, m.Author, botUserID)
	case model.FilterTimeoutDeleteAndLog:
		f.deleteMessage(ctx, m)
		until := f.now().Add(WordFilterTimeoutSeconds * time.Second)
		if err := f.platform.TimeoutMember(ctx, m.GuildID, m.Author.ID, until, reason); err != nil {
			LogPlatformError(ctx, f.logger, "word_filter_timeout", err, "guild_id", m.GuildID, "user_id", m.Author.ID)
		}
		f.sendDM(ctx, m, "timed out", reason, WordFilterTimeoutSeconds)
		duration = model.Int64Ptr(WordFilterTimeoutSeconds)
	}

	c, err := f.store.CreateCase(ctx, model.NewCase{
		GuildID:         gid,
		TargetUserID:    model.Int64Ptr(uid),
		ModeratorUserID: moderatorID,
		Action:          string(model.FilterCaseAction(action)),
		Reason:          word,
		Status:          model.CaseStatusCompleted,
		DurationSeconds: duration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create word filter case: %w", err)
	}
	PublishQuietly(ctx, f.notifier, f.logger, m.GuildID, c, m.Author.Mention())

	return &Violation{Word: word, Action: action, Case: c}, nil
}

func (f *WordFilter) deleteMessage(ctx context.Context, m *discordgo.Message) {
	if err := f.platform.DeleteMessage(ctx, m.ChannelID, m.ID); err != nil {
		LogPlatformError(ctx, f.logger, "delete_message", err, "channel_id", m.ChannelID, "message_id", m.ID)
	}
}

func (f *WordFilter) sendDM(ctx context.Context, m *discordgo.Message, actionPastTense, reason string, seconds int64) {
	embed := TargetDMEmbed(f.guildName(m.GuildID), actionPastTense, reason, seconds)
	if err := f.platform.SendDM(ctx, m.Author.ID, embed); err != nil {
		LogPlatformError(ctx, f.logger, "dm", err, "user_id", m.Author.ID)
	}
}
