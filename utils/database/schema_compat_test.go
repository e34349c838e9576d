package database

import (
	"context"
	"testing"

	"discord-modbot/model"
	"discord-modbot/utils/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyModCases = `CREATE TABLE mod_cases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id INTEGER NOT NULL,
	case_number INTEGER NOT NULL,
	target_user_id INTEGER,
	moderator_user_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	duration_seconds INTEGER,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	UNIQUE (guild_id, case_number)
)`

type labelRow struct {
	ID               int64  `db:"id"`
	CaseCode         string `db:"case_code"`
	ActionCaseNumber int64  `db:"action_case_number"`
}

func labels(t *testing.T, db *DB) map[int64]labelRow {
	t.Helper()
	var rows []labelRow
	require.NoError(t, db.Select(&rows, `SELECT id, case_code, action_case_number FROM mod_cases ORDER BY id`))
	out := make(map[int64]labelRow, len(rows))
	for _, r := range rows {
		out[r.ID] = r
	}
	return out
}

func TestEnsureCaseSchemaCompat_BackfillsLegacyRows(t *testing.T) {
	conn := rawSQLite(t)
	_, err := conn.Exec(legacyModCases)
	require.NoError(t, err)

	// Inserted out of time order on purpose: numbering follows created_at.
	legacy := []struct {
		guild      int64
		caseNumber int64
		action     string
		createdAt  int64
	}{
		{1, 1, "warn", 30},
		{1, 2, "word_filter_delete", 20},
		{1, 3, "warn", 10},
		{1, 4, "custom", 40},
		{1, 5, "auto_timeout", 50},
		{1, 6, "word_filter_timeout", 60},
		{2, 1, "warn", 5},
	}
	for _, l := range legacy {
		_, err := conn.Exec(`INSERT INTO mod_cases (guild_id, case_number, moderator_user_id, action, reason, created_at, updated_at)
			VALUES (?, ?, 1, ?, 'r', ?, ?)`, l.guild, l.caseNumber, l.action, l.createdAt, l.createdAt)
		require.NoError(t, err)
	}

	db := New(conn, cache.Disabled("test"))
	require.NoError(t, db.EnsureSchema(context.Background()))

	got := labels(t, db)
	assert.Equal(t, labelRow{1, "W", 2}, got[1])
	assert.Equal(t, labelRow{2, "WF", 1}, got[2])
	assert.Equal(t, labelRow{3, "W", 1}, got[3])
	assert.Equal(t, labelRow{4, "M", 1}, got[4])
	assert.Equal(t, labelRow{5, "AT", 1}, got[5])
	assert.Equal(t, labelRow{6, "WF", 2}, got[6])
	assert.Equal(t, labelRow{7, "W", 1}, got[7])

	// A second run finds nothing to do and leaves every label alone.
	n, err := db.BackfillCaseCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	require.NoError(t, db.EnsureCaseSchemaCompat(context.Background()))
	assert.Equal(t, got, labels(t, db))

	// New cases continue both sequences.
	c, err := db.CreateCase(context.Background(), newCaseIn(1, "warn"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.CaseNumber)
	assert.Equal(t, int64(3), c.ActionCaseNumber)
}

func TestEnsureCaseSchemaCompat_FreshDatabaseIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateCase(ctx, newCaseIn(testGuild, "custom"))
	require.NoError(t, err)
	_, err = db.CreateCase(ctx, newCaseIn(testGuild, "custom"))
	require.NoError(t, err)
	before := labels(t, db)

	require.NoError(t, db.EnsureSchema(ctx))
	assert.Equal(t, before, labels(t, db))
	assert.Equal(t, labelRow{2, "M", 2}, before[2])
}

func TestEnsureCaseSchemaCompat_ContinuesAfterAssignedNumbers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateCase(ctx, newCaseIn(testGuild, "warn"))
	require.NoError(t, err)

	// A row written by an older build that never set the code.
	_, err = db.Exec(`INSERT INTO mod_cases (guild_id, case_number, moderator_user_id, action, reason, created_at, updated_at)
		VALUES (?, 2, 1, 'warn', 'r', 1, 1)`, testGuild)
	require.NoError(t, err)

	n, err := db.BackfillCaseCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, labelRow{2, "W", 2}, labels(t, db)[2])
}

func newCaseIn(guild int64, action string) model.NewCase {
	nc := newCase(action, 5)
	nc.GuildID = guild
	return nc
}
