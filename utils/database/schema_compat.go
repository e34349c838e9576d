package database

import (
	"context"
	"fmt"

	"discord-modbot/model"
)

var caseCompatColumns = []string{
	`ALTER TABLE mod_cases ADD COLUMN case_code TEXT NOT NULL DEFAULT 'M'`,
	`ALTER TABLE mod_cases ADD COLUMN action_case_number BIGINT NOT NULL DEFAULT 0`,
}

const caseLabelIndex = `CREATE UNIQUE INDEX IF NOT EXISTS mod_cases_guild_case_code_number_idx
	ON mod_cases (guild_id, case_code, action_case_number)`

type legacyCaseRow struct {
	ID               int64  `db:"id"`
	GuildID          int64  `db:"guild_id"`
	Action           string `db:"action"`
	CaseCode         string `db:"case_code"`
	ActionCaseNumber int64  `db:"action_case_number"`
}

type codeKey struct {
	guildID int64
	code    model.CaseCode
}

// EnsureCaseSchemaCompat adds the per-code numbering columns to an older
// mod_cases table, numbers rows that predate them, and then creates the
// label index. Running it again on a migrated table changes nothing.
func (d *DB) EnsureCaseSchemaCompat(ctx context.Context) error {
	for _, stmt := range caseCompatColumns {
		if _, err := d.ExecContext(ctx, stmt); err != nil && !isDuplicateColumn(err) {
			return fmt.Errorf("failed to execute ALTER statement %s: %w", stmt, err)
		}
	}

	if _, err := d.BackfillCaseCodes(ctx); err != nil {
		return err
	}

	if _, err := d.ExecContext(ctx, caseLabelIndex); err != nil {
		return fmt.Errorf("failed to create case label index: %w", err)
	}
	return nil
}

// BackfillCaseCodes assigns case codes and per-code numbers to rows that
// have none, in (created_at, id) order per guild and code. It returns the
// number of rows updated.
func (d *DB) BackfillCaseCodes(ctx context.Context) (int, error) {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin backfill transaction: %w", err)
	}
	defer tx.Rollback()

	var pending []legacyCaseRow
	err = tx.SelectContext(ctx, &pending, `SELECT id, guild_id, action, case_code, action_case_number
		FROM mod_cases
		WHERE action_case_number = 0 OR case_code = 'M'
		ORDER BY guild_id ASC, created_at ASC, id ASC`)
	if err != nil {
		return 0, fmt.Errorf("failed to select cases for backfill: %w", err)
	}

	var todo []legacyCaseRow
	for _, row := range pending {
		// Rows that resolve to M and are already numbered are settled.
		if model.CodeForAction(row.Action) == model.CodeManual && row.ActionCaseNumber > 0 {
			continue
		}
		todo = append(todo, row)
	}
	if len(todo) == 0 {
		return 0, nil
	}

	type assigned struct {
		GuildID  int64  `db:"guild_id"`
		CaseCode string `db:"case_code"`
		MaxNum   int64  `db:"max_num"`
	}
	var existing []assigned
	err = tx.SelectContext(ctx, &existing, `SELECT guild_id, case_code, MAX(action_case_number) AS max_num
		FROM mod_cases
		WHERE action_case_number > 0
		GROUP BY guild_id, case_code`)
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned case numbers: %w", err)
	}

	next := make(map[codeKey]int64, len(existing))
	for _, e := range existing {
		next[codeKey{e.GuildID, model.CaseCode(e.CaseCode)}] = e.MaxNum
	}

	update := d.Rebind(`UPDATE mod_cases SET case_code = ?, action_case_number = ? WHERE id = ?`)
	for _, row := range todo {
		key := codeKey{row.GuildID, model.CodeForAction(row.Action)}
		next[key]++
		if _, err := tx.ExecContext(ctx, update, string(key.code), next[key], row.ID); err != nil {
			return 0, fmt.Errorf("failed to backfill case %d: %w", row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit backfill: %w", err)
	}
	return len(todo), nil
}
