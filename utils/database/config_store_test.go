package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"discord-modbot/model"
	"discord-modbot/utils/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failDel bool
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDel {
		return errors.New("unavailable")
	}
	delete(m.data, key)
	return nil
}

func (m *mapStore) Ping(context.Context) error { return nil }

func newCachedTestDB(t *testing.T) (*DB, *mapStore) {
	t.Helper()
	store := &mapStore{data: map[string][]byte{}}
	db, err := Open(context.Background(), "sqlite3", sqliteDSN(t), cache.New(store, "test", nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, store
}

func TestEscalationConfig_UpsertAndInvalidate(t *testing.T) {
	db, _ := newCachedTestDB(t)
	ctx := context.Background()

	cfg, err := db.GetEscalationConfig(ctx, testGuild)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	require.NoError(t, db.SetEscalationEnabled(ctx, testGuild, true))
	cfg, err = db.GetEscalationConfig(ctx, testGuild)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, int64(model.DefaultWarnThreshold), cfg.WarnThreshold)
	assert.Equal(t, int64(model.DefaultWarnWindowSeconds), cfg.WarnWindowSeconds)
	assert.Equal(t, int64(model.DefaultTimeoutWindowSeconds), cfg.TimeoutWindowSeconds)

	require.NoError(t, db.SetWarnThreshold(ctx, testGuild, 5))
	require.NoError(t, db.SetWarnWindow(ctx, testGuild, 3600))
	require.NoError(t, db.SetTimeoutWindow(ctx, testGuild, 7200))
	cfg, err = db.GetEscalationConfig(ctx, testGuild)
	require.NoError(t, err)
	assert.Equal(t, model.EscalationConfig{
		GuildID:              testGuild,
		Enabled:              true,
		WarnThreshold:        5,
		WarnWindowSeconds:    3600,
		TimeoutWindowSeconds: 7200,
	}, *cfg)

	stats := db.Cache().Snapshot()
	assert.Equal(t, uint64(4), stats.Del)
}

func TestEscalationConfig_WriteSucceedsWhenCacheDown(t *testing.T) {
	db, store := newCachedTestDB(t)
	ctx := context.Background()

	store.failDel = true
	require.NoError(t, db.SetEscalationEnabled(ctx, testGuild, true))
	assert.Equal(t, uint64(1), db.Cache().Snapshot().Errors)
}

func TestModlogChannel(t *testing.T) {
	db, _ := newCachedTestDB(t)
	ctx := context.Background()

	id, err := db.GetModlogChannelID(ctx, testGuild)
	require.NoError(t, err)
	assert.Nil(t, id)

	require.NoError(t, db.SetModlogChannelID(ctx, testGuild, 777))
	id, err = db.GetModlogChannelID(ctx, testGuild)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(777), *id)

	require.NoError(t, db.ClearModlogChannelID(ctx, testGuild))
	id, err = db.GetModlogChannelID(ctx, testGuild)
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestWordFilterStore(t *testing.T) {
	db, _ := newCachedTestDB(t)
	ctx := context.Background()

	cfg, err := db.GetWordFilterIfEnabled(ctx, testGuild)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	require.NoError(t, db.SetWordFilterEnabled(ctx, testGuild, true))
	cfg, err = db.GetWordFilterIfEnabled(ctx, testGuild)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, model.FilterDeleteAndLog, cfg.Action)

	require.NoError(t, db.SetWordFilterAction(ctx, testGuild, model.FilterWarnAndLog))
	cfg, err = db.GetWordFilterConfig(ctx, testGuild)
	require.NoError(t, err)
	assert.Equal(t, model.FilterWarnAndLog, cfg.Action)

	added, err := db.AddFilterWord(ctx, testGuild, "  Badword ")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = db.AddFilterWord(ctx, testGuild, "badword")
	require.NoError(t, err)
	assert.False(t, added)
	_, err = db.AddFilterWord(ctx, testGuild, "another")
	require.NoError(t, err)

	words, err := db.GetFilterWords(ctx, testGuild)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"badword", "another"}, words)

	removed, err := db.RemoveFilterWord(ctx, testGuild, "BADWORD")
	require.NoError(t, err)
	assert.True(t, removed)

	listed, err := db.ListFilterWords(ctx, testGuild)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "another", listed[0].Word)

	words, err = db.GetFilterWords(ctx, testGuild)
	require.NoError(t, err)
	assert.Equal(t, []string{"another"}, words)

	require.NoError(t, db.SetWordFilterEnabled(ctx, testGuild, false))
	cfg, err = db.GetWordFilterIfEnabled(ctx, testGuild)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}
