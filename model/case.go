package model

// Case statuses.
const (
	CaseStatusActive    = "active"
	CaseStatusCompleted = "completed"
)

// Case event types.
const (
	CaseEventCreated       = "created"
	CaseEventReasonUpdated = "reason_updated"
	CaseEventNoteAdded     = "note_added"
)

// ModerationCase is a single row of the mod_cases table.
type ModerationCase struct {
	ID               int64  `db:"id"`
	GuildID          int64  `db:"guild_id"`
	CaseNumber       int64  `db:"case_number"`
	CaseCode         string `db:"case_code"`
	ActionCaseNumber int64  `db:"action_case_number"`
	TargetUserID     *int64 `db:"target_user_id"`
	ModeratorUserID  int64  `db:"moderator_user_id"`
	Action           string `db:"action"`
	Reason           string `db:"reason"`
	Status           string `db:"status"`
	DurationSeconds  *int64 `db:"duration_seconds"`
	CreatedAt        int64  `db:"created_at"`
	UpdatedAt        int64  `db:"updated_at"`
}

// Summary drops the internal row id.
func (c *ModerationCase) Summary() CaseSummary {
	return CaseSummary{
		GuildID:          c.GuildID,
		CaseNumber:       c.CaseNumber,
		CaseCode:         c.CaseCode,
		ActionCaseNumber: c.ActionCaseNumber,
		TargetUserID:     c.TargetUserID,
		ModeratorUserID:  c.ModeratorUserID,
		Action:           c.Action,
		Reason:           c.Reason,
		Status:           c.Status,
		DurationSeconds:  c.DurationSeconds,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// CaseSummary is what callers render; it carries both sequence numbers.
type CaseSummary struct {
	GuildID          int64  `db:"guild_id" json:"guild_id"`
	CaseNumber       int64  `db:"case_number" json:"case_number"`
	CaseCode         string `db:"case_code" json:"case_code"`
	ActionCaseNumber int64  `db:"action_case_number" json:"action_case_number"`
	TargetUserID     *int64 `db:"target_user_id" json:"target_user_id,omitempty"`
	ModeratorUserID  int64  `db:"moderator_user_id" json:"moderator_user_id"`
	Action           string `db:"action" json:"action"`
	Reason           string `db:"reason" json:"reason"`
	Status           string `db:"status" json:"status"`
	DurationSeconds  *int64 `db:"duration_seconds" json:"duration_seconds,omitempty"`
	CreatedAt        int64  `db:"created_at" json:"created_at"`
	UpdatedAt        int64  `db:"updated_at" json:"updated_at"`
}

// NewCase holds the caller-supplied fields of a case before numbering.
type NewCase struct {
	GuildID         int64
	TargetUserID    *int64
	ModeratorUserID int64
	Action          string
	Reason          string
	Status          string
	DurationSeconds *int64
}

// CaseEvent is one entry of a case's audit trail.
type CaseEvent struct {
	ID          int64   `db:"id"`
	CaseID      int64   `db:"case_id"`
	GuildID     int64   `db:"guild_id"`
	EventType   string  `db:"event_type"`
	ActorUserID int64   `db:"actor_user_id"`
	OldReason   *string `db:"old_reason"`
	NewReason   *string `db:"new_reason"`
	Note        *string `db:"note"`
	CreatedAt   int64   `db:"created_at"`
}

// CaseFilters narrows ListRecentCases. Zero values mean "no filter".
type CaseFilters struct {
	TargetUserID    *int64
	ModeratorUserID *int64
	Action          string
	Limit           int
}

// Int64Ptr is a small helper for optional columns.
func Int64Ptr(v int64) *int64 {
	return &v
}
