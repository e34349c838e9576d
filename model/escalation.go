package model

// Defaults shown when a guild has no escalation_config row.
const (
	DefaultWarnThreshold        = 3
	DefaultWarnWindowSeconds    = 86400
	DefaultTimeoutWindowSeconds = 604800
)

// EscalationConfig is the per-guild warn-to-timeout policy.
type EscalationConfig struct {
	GuildID              int64 `db:"guild_id" json:"guild_id"`
	Enabled              bool  `db:"enabled" json:"enabled"`
	WarnThreshold        int64 `db:"warn_threshold" json:"warn_threshold"`
	WarnWindowSeconds    int64 `db:"warn_window_seconds" json:"warn_window_seconds"`
	TimeoutWindowSeconds int64 `db:"timeout_window_seconds" json:"timeout_window_seconds"`
}

// DefaultEscalationConfig is what a guild without a row effectively has.
func DefaultEscalationConfig(guildID int64) EscalationConfig {
	return EscalationConfig{
		GuildID:              guildID,
		Enabled:              false,
		WarnThreshold:        DefaultWarnThreshold,
		WarnWindowSeconds:    DefaultWarnWindowSeconds,
		TimeoutWindowSeconds: DefaultTimeoutWindowSeconds,
	}
}

// EscalationResult describes an automatic timeout that was applied.
type EscalationResult struct {
	TimedOut       bool
	TimeoutSeconds int64
	Tier           int64
}
