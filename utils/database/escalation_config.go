package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"discord-modbot/model"
	"discord-modbot/utils/cache"
)

// GetEscalationConfig reads the guild's escalation policy through the
// cache. It returns nil when the guild has never configured escalation.
func (d *DB) GetEscalationConfig(ctx context.Context, guildID int64) (*model.EscalationConfig, error) {
	key := cache.EscalationConfigKey(d.cache, guildID)
	return cache.GetOrLoadJSON(ctx, d.cache, key, cache.ConfigTTL, func(ctx context.Context) (*model.EscalationConfig, error) {
		var cfg model.EscalationConfig
		err := d.GetContext(ctx, &cfg, d.Rebind(`SELECT guild_id, enabled, warn_threshold, warn_window_seconds, timeout_window_seconds
			FROM escalation_config WHERE guild_id = ?`), guildID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get escalation config for guild %d: %w", guildID, err)
		}
		return &cfg, nil
	})
}

func (d *DB) upsertEscalationColumn(ctx context.Context, guildID int64, column string, value interface{}) error {
	query := d.Rebind(fmt.Sprintf(`INSERT INTO escalation_config (guild_id, %[1]s) VALUES (?, ?)
		ON CONFLICT (guild_id) DO UPDATE SET %[1]s = excluded.%[1]s`, column))
	if _, err := d.ExecContext(ctx, query, guildID, value); err != nil {
		return fmt.Errorf("failed to set %s for guild %d: %w", column, guildID, err)
	}
	d.cache.Invalidate(ctx, cache.EscalationConfigKey(d.cache, guildID))
	return nil
}

func (d *DB) SetEscalationEnabled(ctx context.Context, guildID int64, enabled bool) error {
	return d.upsertEscalationColumn(ctx, guildID, "enabled", enabled)
}

func (d *DB) SetWarnThreshold(ctx context.Context, guildID int64, threshold int64) error {
	return d.upsertEscalationColumn(ctx, guildID, "warn_threshold", threshold)
}

func (d *DB) SetWarnWindow(ctx context.Context, guildID int64, seconds int64) error {
	return d.upsertEscalationColumn(ctx, guildID, "warn_window_seconds", seconds)
}

func (d *DB) SetTimeoutWindow(ctx context.Context, guildID int64, seconds int64) error {
	return d.upsertEscalationColumn(ctx, guildID, "timeout_window_seconds", seconds)
}
