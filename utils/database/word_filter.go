package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"discord-modbot/model"
	"discord-modbot/utils/cache"
)

// GetWordFilterConfig returns the guild's word filter settings, or nil if
// the guild never configured the filter.
func (d *DB) GetWordFilterConfig(ctx context.Context, guildID int64) (*model.WordFilterConfig, error) {
	key := cache.WordFilterConfigKey(d.cache, guildID)
	return cache.GetOrLoadJSON(ctx, d.cache, key, cache.ConfigTTL, func(ctx context.Context) (*model.WordFilterConfig, error) {
		var cfg model.WordFilterConfig
		err := d.GetContext(ctx, &cfg, d.Rebind(`SELECT guild_id, enabled, action FROM word_filter_config WHERE guild_id = ?`), guildID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get word filter config for guild %d: %w", guildID, err)
		}
		return &cfg, nil
	})
}

// GetWordFilterIfEnabled is GetWordFilterConfig restricted to enabled filters.
func (d *DB) GetWordFilterIfEnabled(ctx context.Context, guildID int64) (*model.WordFilterConfig, error) {
	cfg, err := d.GetWordFilterConfig(ctx, guildID)
	if err != nil || cfg == nil || !cfg.Enabled {
		return nil, err
	}
	return cfg, nil
}

func (d *DB) invalidateWordFilter(ctx context.Context, guildID int64) {
	d.cache.Invalidate(ctx, cache.WordFilterConfigKey(d.cache, guildID), cache.WordFilterWordsKey(d.cache, guildID))
}

func (d *DB) SetWordFilterEnabled(ctx context.Context, guildID int64, enabled bool) error {
	query := d.Rebind(`INSERT INTO word_filter_config (guild_id, enabled) VALUES (?, ?)
		ON CONFLICT (guild_id) DO UPDATE SET enabled = excluded.enabled`)
	if _, err := d.ExecContext(ctx, query, guildID, enabled); err != nil {
		return fmt.Errorf("failed to set word filter enabled for guild %d: %w", guildID, err)
	}
	d.invalidateWordFilter(ctx, guildID)
	return nil
}

func (d *DB) SetWordFilterAction(ctx context.Context, guildID int64, action string) error {
	query := d.Rebind(`INSERT INTO word_filter_config (guild_id, action) VALUES (?, ?)
		ON CONFLICT (guild_id) DO UPDATE SET action = excluded.action`)
	if _, err := d.ExecContext(ctx, query, guildID, action); err != nil {
		return fmt.Errorf("failed to set word filter action for guild %d: %w", guildID, err)
	}
	d.invalidateWordFilter(ctx, guildID)
	return nil
}

// AddFilterWord stores word lowercased. It returns false if it was already listed.
func (d *DB) AddFilterWord(ctx context.Context, guildID int64, word string) (bool, error) {
	query := d.Rebind(`INSERT INTO word_filter_words (guild_id, word, created_at) VALUES (?, ?, ?)
		ON CONFLICT (guild_id, word) DO NOTHING`)
	res, err := d.ExecContext(ctx, query, guildID, strings.ToLower(strings.TrimSpace(word)), d.nowUnix())
	if err != nil {
		return false, fmt.Errorf("failed to add filter word for guild %d: %w", guildID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	d.invalidateWordFilter(ctx, guildID)
	return affected > 0, nil
}

func (d *DB) RemoveFilterWord(ctx context.Context, guildID int64, word string) (bool, error) {
	res, err := d.ExecContext(ctx, d.Rebind(`DELETE FROM word_filter_words WHERE guild_id = ? AND word = ?`),
		guildID, strings.ToLower(strings.TrimSpace(word)))
	if err != nil {
		return false, fmt.Errorf("failed to remove filter word for guild %d: %w", guildID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	d.invalidateWordFilter(ctx, guildID)
	return affected > 0, nil
}

// ListFilterWords returns the guild's words alphabetically.
func (d *DB) ListFilterWords(ctx context.Context, guildID int64) ([]model.WordFilterWord, error) {
	words := []model.WordFilterWord{}
	query := d.Rebind(`SELECT id, guild_id, word, created_at FROM word_filter_words WHERE guild_id = ? ORDER BY word ASC`)
	if err := d.SelectContext(ctx, &words, query, guildID); err != nil {
		return nil, fmt.Errorf("failed to list filter words for guild %d: %w", guildID, err)
	}
	return words, nil
}

// GetFilterWords returns just the words, read through the cache.
func (d *DB) GetFilterWords(ctx context.Context, guildID int64) ([]string, error) {
	key := cache.WordFilterWordsKey(d.cache, guildID)
	return cache.GetOrLoadJSON(ctx, d.cache, key, cache.WordListTTL, func(ctx context.Context) ([]string, error) {
		words := []string{}
		if err := d.SelectContext(ctx, &words, d.Rebind(`SELECT word FROM word_filter_words WHERE guild_id = ?`), guildID); err != nil {
			return nil, fmt.Errorf("failed to load filter words for guild %d: %w", guildID, err)
		}
		return words, nil
	})
}
