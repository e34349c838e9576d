package model

// Word filter actions configured per guild.
const (
	FilterDeleteAndLog        = "delete_and_log"
	FilterWarnAndLog          = "warn_and_log"
	FilterTimeoutDeleteAndLog = "timeout_delete_and_log"
	FilterLogOnly             = "log_only"
)

// DefaultFilterAction applies until a moderator picks another one.
const DefaultFilterAction = FilterDeleteAndLog

// ValidFilterActions lists the accepted action values in display order.
var ValidFilterActions = []string{FilterDeleteAndLog, FilterWarnAndLog, FilterTimeoutDeleteAndLog, FilterLogOnly}

// WordFilterConfig is the per-guild word filter switch and action.
type WordFilterConfig struct {
	GuildID int64  `db:"guild_id" json:"guild_id"`
	Enabled bool   `db:"enabled" json:"enabled"`
	Action  string `db:"action" json:"action"`
}

// WordFilterWord is one filtered word.
type WordFilterWord struct {
	ID        int64  `db:"id"`
	GuildID   int64  `db:"guild_id"`
	Word      string `db:"word"`
	CreatedAt int64  `db:"created_at"`
}

// FilterCaseAction maps a filter action to the action recorded on the case.
func FilterCaseAction(filterAction string) Action {
	switch filterAction {
	case FilterTimeoutDeleteAndLog:
		return ActionWordFilterTimeout
	case FilterDeleteAndLog:
		return ActionWordFilterDelete
	case FilterWarnAndLog:
		return ActionWordFilterWarn
	default:
		return ActionWordFilterLog
	}
}

// FilterActionLabel is the human label for a filter action.
func FilterActionLabel(filterAction string) string {
	switch filterAction {
	case FilterTimeoutDeleteAndLog:
		return "Timeout, Delete & Log"
	case FilterDeleteAndLog:
		return "Delete & Log"
	case FilterWarnAndLog:
		return "Warn, Delete & Log"
	default:
		return "Log Only"
	}
}
