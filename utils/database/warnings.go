package database

import (
	"context"
	"fmt"

	"discord-modbot/model"
)

// RecordWarning stores a warning and returns the user's total warning count
// in the guild, which is used as the displayed warning number.
func (d *DB) RecordWarning(ctx context.Context, guildID, userID, moderatorID int64, reason string) (*model.WarningRecord, error) {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin warning transaction: %w", err)
	}
	defer tx.Rollback()

	now := d.nowUnix()
	_, err = tx.ExecContext(ctx, d.Rebind(`INSERT INTO warnings (guild_id, user_id, moderator_id, reason, warned_at) VALUES (?, ?, ?, ?, ?)`),
		guildID, userID, moderatorID, reason, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert warning for user %d: %w", userID, err)
	}

	var total int64
	err = tx.GetContext(ctx, &total, d.Rebind(`SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND user_id = ?`), guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count warnings for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit warning: %w", err)
	}
	return &model.WarningRecord{WarnNumber: total, WarnedAt: now}, nil
}

// WarningsSince lists the user's warnings with warned_at >= since, oldest first.
func (d *DB) WarningsSince(ctx context.Context, guildID, userID, since int64) ([]model.WarningEntry, error) {
	entries := []model.WarningEntry{}
	query := d.Rebind(`SELECT id, guild_id, user_id, moderator_id, reason, warned_at FROM warnings
		WHERE guild_id = ? AND user_id = ? AND warned_at >= ?
		ORDER BY warned_at ASC, id ASC`)
	if err := d.SelectContext(ctx, &entries, query, guildID, userID, since); err != nil {
		return nil, fmt.Errorf("failed to get warnings for user %d: %w", userID, err)
	}
	return entries, nil
}

// RemoveWarningByNumber deletes the n-th warning (1-indexed, oldest first).
// Ranking and deletion happen in one statement.
func (d *DB) RemoveWarningByNumber(ctx context.Context, guildID, userID, n int64) (bool, error) {
	if n < 1 {
		return false, nil
	}
	query := d.Rebind(`DELETE FROM warnings WHERE id = (
		SELECT id FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY warned_at ASC, id ASC) AS rn
			FROM warnings
			WHERE guild_id = ? AND user_id = ?
		) ranked
		WHERE rn = ?
	)`)
	res, err := d.ExecContext(ctx, query, guildID, userID, n)
	if err != nil {
		return false, fmt.Errorf("failed to remove warning %d for user %d: %w", n, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearWarnings deletes all of the user's warnings and returns how many went.
func (d *DB) ClearWarnings(ctx context.Context, guildID, userID int64) (int64, error) {
	res, err := d.ExecContext(ctx, d.Rebind(`DELETE FROM warnings WHERE guild_id = ? AND user_id = ?`), guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings for user %d: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return affected, nil
}

// CountWarningsInWindow counts warnings issued in the last windowSeconds.
func (d *DB) CountWarningsInWindow(ctx context.Context, guildID, userID, windowSeconds int64) (int64, error) {
	return d.CountWarningsSince(ctx, guildID, userID, d.nowUnix()-windowSeconds)
}

// CountWarningsSince counts warnings issued at or after since.
func (d *DB) CountWarningsSince(ctx context.Context, guildID, userID, since int64) (int64, error) {
	var count int64
	query := d.Rebind(`SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND user_id = ? AND warned_at >= ?`)
	if err := d.GetContext(ctx, &count, query, guildID, userID, since); err != nil {
		return 0, fmt.Errorf("failed to count warnings for user %d: %w", userID, err)
	}
	return count, nil
}

// CountAllWarnings returns the user's total warning count in the guild.
func (d *DB) CountAllWarnings(ctx context.Context, guildID, userID int64) (int64, error) {
	var count int64
	if err := d.GetContext(ctx, &count, d.Rebind(`SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND user_id = ?`), guildID, userID); err != nil {
		return 0, fmt.Errorf("failed to count warnings for user %d: %w", userID, err)
	}
	return count, nil
}
