package moderation

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"discord-modbot/model"
	"discord-modbot/utils/cache"
	"discord-modbot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type timeoutCall struct {
	GuildID, UserID string
	Until           time.Time
	Reason          string
}

type fakePlatform struct {
	mu         sync.Mutex
	timeouts   []timeoutCall
	dms        []*discordgo.MessageEmbed
	deleted    []string
	timeoutErr error
	dmErr      error
}

func (p *fakePlatform) TimeoutMember(_ context.Context, guildID, userID string, until time.Time, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeouts = append(p.timeouts, timeoutCall{guildID, userID, until, reason})
	return p.timeoutErr
}

func (p *fakePlatform) SendDM(_ context.Context, _ string, embed *discordgo.MessageEmbed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dms = append(p.dms, embed)
	return p.dmErr
}

func (p *fakePlatform) RemoveTimeout(context.Context, string, string, string) error { return nil }

func (p *fakePlatform) Kick(context.Context, string, string, string) error { return nil }

func (p *fakePlatform) Ban(context.Context, string, string, string, int) error { return nil }

func (p *fakePlatform) Unban(context.Context, string, string, string) error { return nil }

func (p *fakePlatform) PurgeMessages(context.Context, string, int) (int, error) { return 0, nil }

func (p *fakePlatform) DeleteMessage(_ context.Context, _, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, messageID)
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	published []*model.CaseSummary
	err       error
}

func (n *fakeNotifier) PublishCase(_ context.Context, _ string, c *model.CaseSummary, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, c)
	return n.err
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "modbot.db") + "?_busy_timeout=10000&_txlock=immediate&_journal_mode=WAL&_foreign_keys=on"
	db, err := database.Open(context.Background(), "sqlite3", dsn, cache.Disabled("test"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// testClock is shared by the store and the engine.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
