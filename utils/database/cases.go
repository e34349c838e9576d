package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"discord-modbot/metrics"
	"discord-modbot/model"

	"github.com/jmoiron/sqlx"
)

const (
	MaxCaseListLimit = 200
	caseCreatedNote  = "Case created"
)

const caseColumns = `id, guild_id, case_number, case_code, action_case_number, target_user_id,
	moderator_user_id, action, reason, status, duration_seconds, created_at, updated_at`

const summaryColumns = `guild_id, case_number, case_code, action_case_number, target_user_id,
	moderator_user_id, action, reason, status, duration_seconds, created_at, updated_at`

// CreateCase numbers and stores a new case together with its "created"
// event. Both sequence numbers are read under the guild lock, so concurrent
// creations in one guild never share a number.
func (d *DB) CreateCase(ctx context.Context, nc model.NewCase) (*model.CaseSummary, error) {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin case transaction: %w", err)
	}
	defer tx.Rollback()

	if err := d.lockGuild(ctx, tx, nc.GuildID); err != nil {
		return nil, err
	}

	code := model.CodeForAction(nc.Action)

	var caseNumber int64
	err = tx.GetContext(ctx, &caseNumber, d.Rebind(`SELECT COALESCE(MAX(case_number), 0) + 1 FROM mod_cases WHERE guild_id = ?`), nc.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to read next case number for guild %d: %w", nc.GuildID, err)
	}

	var actionCaseNumber int64
	err = tx.GetContext(ctx, &actionCaseNumber, d.Rebind(`SELECT COALESCE(MAX(action_case_number), 0) + 1 FROM mod_cases WHERE guild_id = ? AND case_code = ?`), nc.GuildID, string(code))
	if err != nil {
		return nil, fmt.Errorf("failed to read next %s case number for guild %d: %w", code, nc.GuildID, err)
	}

	status := nc.Status
	if status == "" {
		status = model.CaseStatusActive
	}
	now := d.nowUnix()

	c := model.ModerationCase{
		GuildID:          nc.GuildID,
		CaseNumber:       caseNumber,
		CaseCode:         string(code),
		ActionCaseNumber: actionCaseNumber,
		TargetUserID:     nc.TargetUserID,
		ModeratorUserID:  nc.ModeratorUserID,
		Action:           nc.Action,
		Reason:           nc.Reason,
		Status:           status,
		DurationSeconds:  nc.DurationSeconds,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	insert := d.Rebind(`INSERT INTO mod_cases (guild_id, case_number, case_code, action_case_number, target_user_id,
		moderator_user_id, action, reason, status, duration_seconds, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err = tx.QueryRowxContext(ctx, insert,
		c.GuildID, c.CaseNumber, c.CaseCode, c.ActionCaseNumber, c.TargetUserID,
		c.ModeratorUserID, c.Action, c.Reason, c.Status, c.DurationSeconds, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert case: %w", err)
	}

	note := caseCreatedNote
	if err := insertCaseEvent(ctx, tx, model.CaseEvent{
		CaseID:      c.ID,
		GuildID:     c.GuildID,
		EventType:   model.CaseEventCreated,
		ActorUserID: c.ModeratorUserID,
		Note:        &note,
		CreatedAt:   now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit case: %w", err)
	}

	metrics.CaseCreated(ctx, c.CaseCode)
	summary := c.Summary()
	return &summary, nil
}

func insertCaseEvent(ctx context.Context, tx *sqlx.Tx, ev model.CaseEvent) error {
	query := tx.Rebind(`INSERT INTO mod_case_events (case_id, guild_id, event_type, actor_user_id, old_reason, new_reason, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := tx.ExecContext(ctx, query, ev.CaseID, ev.GuildID, ev.EventType, ev.ActorUserID, ev.OldReason, ev.NewReason, ev.Note, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert %s event for case %d: %w", ev.EventType, ev.CaseID, err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxCaseListLimit {
		return MaxCaseListLimit
	}
	return limit
}

// ListRecentCases returns the newest cases of a guild first.
func (d *DB) ListRecentCases(ctx context.Context, guildID int64, f model.CaseFilters) ([]model.CaseSummary, error) {
	query := "SELECT " + summaryColumns + " FROM mod_cases WHERE guild_id = ?"
	args := []interface{}{guildID}

	if f.TargetUserID != nil {
		query += " AND target_user_id = ?"
		args = append(args, *f.TargetUserID)
	}
	if f.ModeratorUserID != nil {
		query += " AND moderator_user_id = ?"
		args = append(args, *f.ModeratorUserID)
	}
	if action := strings.TrimSpace(f.Action); action != "" {
		query += " AND LOWER(action) = LOWER(?)"
		args = append(args, action)
	}
	query += " ORDER BY case_number DESC LIMIT ?"
	args = append(args, clampLimit(f.Limit))

	cases := []model.CaseSummary{}
	if err := d.SelectContext(ctx, &cases, d.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list cases for guild %d: %w", guildID, err)
	}
	return cases, nil
}

// GetCaseByLabel retrieves a case by code and per-code number. It returns
// nil when no such case exists.
func (d *DB) GetCaseByLabel(ctx context.Context, guildID int64, code string, number int64) (*model.ModerationCase, error) {
	var c model.ModerationCase
	query := d.Rebind("SELECT " + caseColumns + " FROM mod_cases WHERE guild_id = ? AND case_code = ? AND action_case_number = ?")
	err := d.GetContext(ctx, &c, query, guildID, strings.ToUpper(code), number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case %s%d in guild %d: %w", code, number, guildID, err)
	}
	return &c, nil
}

// UpdateCaseReason replaces a case's reason and records the change. It
// returns nil when the case does not exist.
func (d *DB) UpdateCaseReason(ctx context.Context, guildID int64, code string, number int64, actorID int64, reason string) (*model.ModerationCase, error) {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reason update: %w", err)
	}
	defer tx.Rollback()

	var c model.ModerationCase
	query := d.Rebind("SELECT " + caseColumns + " FROM mod_cases WHERE guild_id = ? AND case_code = ? AND action_case_number = ?" + d.forUpdate())
	err = tx.GetContext(ctx, &c, query, guildID, strings.ToUpper(code), number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock case %s%d in guild %d: %w", code, number, guildID, err)
	}

	oldReason := c.Reason
	now := d.nowUnix()
	if _, err := tx.ExecContext(ctx, d.Rebind(`UPDATE mod_cases SET reason = ?, updated_at = ? WHERE id = ?`), reason, now, c.ID); err != nil {
		return nil, fmt.Errorf("failed to update reason for case %d: %w", c.ID, err)
	}

	if err := insertCaseEvent(ctx, tx, model.CaseEvent{
		CaseID:      c.ID,
		GuildID:     guildID,
		EventType:   model.CaseEventReasonUpdated,
		ActorUserID: actorID,
		OldReason:   &oldReason,
		NewReason:   &reason,
		CreatedAt:   now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reason update: %w", err)
	}

	c.Reason = reason
	c.UpdatedAt = now
	return &c, nil
}

// AddCaseNote attaches a note to a case. It returns false when the case
// does not exist.
func (d *DB) AddCaseNote(ctx context.Context, guildID int64, code string, number int64, actorID int64, note string) (bool, error) {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin note transaction: %w", err)
	}
	defer tx.Rollback()

	var caseID int64
	query := d.Rebind("SELECT id FROM mod_cases WHERE guild_id = ? AND case_code = ? AND action_case_number = ?" + d.forUpdate())
	err = tx.GetContext(ctx, &caseID, query, guildID, strings.ToUpper(code), number)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find case %s%d in guild %d: %w", code, number, guildID, err)
	}

	now := d.nowUnix()
	if err := insertCaseEvent(ctx, tx, model.CaseEvent{
		CaseID:      caseID,
		GuildID:     guildID,
		EventType:   model.CaseEventNoteAdded,
		ActorUserID: actorID,
		Note:        &note,
		CreatedAt:   now,
	}); err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, d.Rebind(`UPDATE mod_cases SET updated_at = ? WHERE id = ?`), now, caseID); err != nil {
		return false, fmt.Errorf("failed to touch case %d: %w", caseID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit note: %w", err)
	}
	return true, nil
}

// GetCaseEvents returns a case's audit trail, oldest first. A missing case
// yields an empty slice.
func (d *DB) GetCaseEvents(ctx context.Context, guildID int64, code string, number int64) ([]model.CaseEvent, error) {
	events := []model.CaseEvent{}
	query := d.Rebind(`SELECT e.id, e.case_id, e.guild_id, e.event_type, e.actor_user_id, e.old_reason, e.new_reason, e.note, e.created_at
		FROM mod_case_events e
		JOIN mod_cases c ON c.id = e.case_id
		WHERE c.guild_id = ? AND c.case_code = ? AND c.action_case_number = ?
		ORDER BY e.created_at ASC, e.id ASC`)
	if err := d.SelectContext(ctx, &events, query, guildID, strings.ToUpper(code), number); err != nil {
		return nil, fmt.Errorf("failed to get events for case %s%d: %w", code, number, err)
	}
	return events, nil
}

// GetLatestCaseNote returns the most recent user note on a case, if any.
func (d *DB) GetLatestCaseNote(ctx context.Context, guildID int64, code string, number int64) (string, bool, error) {
	var note string
	query := d.Rebind(`SELECT e.note
		FROM mod_case_events e
		JOIN mod_cases c ON c.id = e.case_id
		WHERE c.guild_id = ? AND c.case_code = ? AND c.action_case_number = ? AND e.event_type = ?
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT 1`)
	err := d.GetContext(ctx, &note, query, guildID, strings.ToUpper(code), number, model.CaseEventNoteAdded)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get latest note for case %s%d: %w", code, number, err)
	}
	return note, true, nil
}

// CountTimeoutCasesSince counts the user's timeout-type cases created at or
// after since.
func (d *DB) CountTimeoutCasesSince(ctx context.Context, guildID, userID, since int64) (int64, error) {
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM mod_cases
		WHERE guild_id = ? AND target_user_id = ? AND action IN (?) AND created_at >= ?`,
		guildID, userID, timeoutActionStrings(), since)
	if err != nil {
		return 0, fmt.Errorf("failed to build timeout count query: %w", err)
	}

	var count int64
	if err := d.GetContext(ctx, &count, d.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count timeouts for user %d in guild %d: %w", userID, guildID, err)
	}
	return count, nil
}

func timeoutActionStrings() []string {
	out := make([]string, 0, len(model.TimeoutActions))
	for _, a := range model.TimeoutActions {
		out = append(out, string(a))
	}
	return out
}
