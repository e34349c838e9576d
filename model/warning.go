package model

// WarningEntry is one row of the warnings table.
type WarningEntry struct {
	ID          int64  `db:"id"`
	GuildID     int64  `db:"guild_id"`
	UserID      int64  `db:"user_id"`
	ModeratorID int64  `db:"moderator_id"`
	Reason      string `db:"reason"`
	WarnedAt    int64  `db:"warned_at"`
}

// WarningRecord is returned by RecordWarning. WarnNumber is the user's total
// warning count in the guild after the insert.
type WarningRecord struct {
	WarnNumber int64
	WarnedAt   int64
}
