package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"discord-modbot/utils/cache"
)

// GetModlogChannelID returns the guild's modlog channel, or nil if unset.
func (d *DB) GetModlogChannelID(ctx context.Context, guildID int64) (*int64, error) {
	key := cache.ModlogConfigKey(d.cache, guildID)
	return cache.GetOrLoadJSON(ctx, d.cache, key, cache.ConfigTTL, func(ctx context.Context) (*int64, error) {
		var channelID sql.NullInt64
		err := d.GetContext(ctx, &channelID, d.Rebind(`SELECT modlog_channel_id FROM guild_mod_config WHERE guild_id = ?`), guildID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !channelID.Valid) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get modlog channel for guild %d: %w", guildID, err)
		}
		return &channelID.Int64, nil
	})
}

func (d *DB) SetModlogChannelID(ctx context.Context, guildID, channelID int64) error {
	query := d.Rebind(`INSERT INTO guild_mod_config (guild_id, modlog_channel_id) VALUES (?, ?)
		ON CONFLICT (guild_id) DO UPDATE SET modlog_channel_id = excluded.modlog_channel_id`)
	if _, err := d.ExecContext(ctx, query, guildID, channelID); err != nil {
		return fmt.Errorf("failed to set modlog channel for guild %d: %w", guildID, err)
	}
	d.cache.Invalidate(ctx, cache.ModlogConfigKey(d.cache, guildID))
	return nil
}

func (d *DB) ClearModlogChannelID(ctx context.Context, guildID int64) error {
	query := d.Rebind(`UPDATE guild_mod_config SET modlog_channel_id = NULL WHERE guild_id = ?`)
	if _, err := d.ExecContext(ctx, query, guildID); err != nil {
		return fmt.Errorf("failed to clear modlog channel for guild %d: %w", guildID, err)
	}
	d.cache.Invalidate(ctx, cache.ModlogConfigKey(d.cache, guildID))
	return nil
}
