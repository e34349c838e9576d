package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"discord-modbot/utils/cache"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func sqliteDSN(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modbot.db")
	return "file:" + path + "?_busy_timeout=10000&_txlock=immediate&_journal_mode=WAL&_foreign_keys=on"
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), "sqlite3", sqliteDSN(t), cache.Disabled("test"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func rawSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := sqlx.Connect("sqlite3", sqliteDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(unix int64) *fakeClock {
	return &fakeClock{now: time.Unix(unix, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(unix int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Unix(unix, 0)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
