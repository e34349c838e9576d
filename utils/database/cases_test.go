package database

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"discord-modbot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const testGuild int64 = 111

func newCase(action string, target int64) model.NewCase {
	return model.NewCase{
		GuildID:         testGuild,
		TargetUserID:    model.Int64Ptr(target),
		ModeratorUserID: 900,
		Action:          action,
		Reason:          "reason for " + action,
		Status:          model.CaseStatusActive,
	}
}

func TestCreateCase_ConcurrentNumbersHaveNoGapsOrDuplicates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	const perAction = 12
	actions := []string{"warn", "ban"}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := 0; i < perAction; i++ {
		for _, action := range actions {
			i, action := i, action
			g.Go(func() error {
				_, err := db.CreateCase(gctx, newCase(action, int64(1000+i)))
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	cases, err := db.ListRecentCases(ctx, testGuild, model.CaseFilters{Limit: MaxCaseListLimit})
	require.NoError(t, err)
	require.Len(t, cases, perAction*len(actions))

	byCode := map[string][]int64{}
	var global []int64
	for _, c := range cases {
		byCode[c.CaseCode] = append(byCode[c.CaseCode], c.ActionCaseNumber)
		global = append(global, c.CaseNumber)
	}

	for _, code := range []string{"W", "B"} {
		nums := byCode[code]
		sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
		assert.Equal(t, sequence(perAction), nums, "code %s", code)
	}
	sort.Slice(global, func(i, j int) bool { return global[i] < global[j] })
	assert.Equal(t, sequence(perAction*len(actions)), global)
}

func sequence(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func TestCreateCase_GlobalNumberSpansAllCodes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var labels []string
	for _, action := range []string{"warn", "ban", "warn", "custom_thing", "word_filter_delete", "auto_timeout", "warn"} {
		c, err := db.CreateCase(ctx, newCase(action, 5))
		require.NoError(t, err)
		labels = append(labels, fmt.Sprintf("%d:%s%d", c.CaseNumber, c.CaseCode, c.ActionCaseNumber))
	}

	assert.Equal(t, []string{"1:W1", "2:B1", "3:W2", "4:M1", "5:WF1", "6:AT1", "7:W3"}, labels)
}

func TestCreateCase_OtherGuildsHaveIndependentSequences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateCase(ctx, newCase("warn", 5))
	require.NoError(t, err)

	other := newCase("warn", 5)
	other.GuildID = 222
	c, err := db.CreateCase(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.CaseNumber)
	assert.Equal(t, int64(1), c.ActionCaseNumber)
}

func TestCreateCase_WritesCreatedEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clock := newFakeClock(1_700_000_000)
	db.SetClock(clock.Now)

	nc := newCase("timeout", 7)
	nc.DurationSeconds = model.Int64Ptr(600)
	nc.Status = ""
	c, err := db.CreateCase(ctx, nc)
	require.NoError(t, err)
	assert.Equal(t, model.CaseStatusActive, c.Status)
	assert.Equal(t, int64(1_700_000_000), c.CreatedAt)
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)

	events, err := db.GetCaseEvents(ctx, testGuild, "T", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.CaseEventCreated, events[0].EventType)
	assert.Equal(t, int64(900), events[0].ActorUserID)
	require.NotNil(t, events[0].Note)
	assert.Equal(t, "Case created", *events[0].Note)

	stored, err := db.GetCaseByLabel(ctx, testGuild, "t", 1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.DurationSeconds)
	assert.Equal(t, int64(600), *stored.DurationSeconds)
	require.NotNil(t, stored.TargetUserID)
	assert.Equal(t, int64(7), *stored.TargetUserID)
}

func TestCreateCase_NoTarget(t *testing.T) {
	db := newTestDB(t)
	nc := newCase("purge", 0)
	nc.TargetUserID = nil

	c, err := db.CreateCase(context.Background(), nc)
	require.NoError(t, err)
	assert.Nil(t, c.TargetUserID)
	assert.Equal(t, "P", c.CaseCode)
}

func TestListRecentCases_Filters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateCase(ctx, newCase("warn", 1))
	require.NoError(t, err)
	_, err = db.CreateCase(ctx, newCase("ban", 2))
	require.NoError(t, err)
	byOther := newCase("warn", 2)
	byOther.ModeratorUserID = 901
	_, err = db.CreateCase(ctx, byOther)
	require.NoError(t, err)

	all, err := db.ListRecentCases(ctx, testGuild, model.CaseFilters{Limit: 50})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].CaseNumber, all[1].CaseNumber, all[2].CaseNumber})

	target, err := db.ListRecentCases(ctx, testGuild, model.CaseFilters{TargetUserID: model.Int64Ptr(2), Limit: 50})
	require.NoError(t, err)
	assert.Len(t, target, 2)

	mod, err := db.ListRecentCases(ctx, testGuild, model.CaseFilters{ModeratorUserID: model.Int64Ptr(901), Limit: 50})
	require.NoError(t, err)
	require.Len(t, mod, 1)
	assert.Equal(t, int64(3), mod[0].CaseNumber)

	warns, err := db.ListRecentCases(ctx, testGuild, model.CaseFilters{Action: " WARN ", Limit: 50})
	require.NoError(t, err)
	assert.Len(t, warns, 2)

	clamped, err := db.ListRecentCases(ctx, testGuild, model.CaseFilters{Limit: 0})
	require.NoError(t, err)
	require.Len(t, clamped, 1)
	assert.Equal(t, int64(3), clamped[0].CaseNumber)

	none, err := db.ListRecentCases(ctx, 999, model.CaseFilters{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, clampLimit(-5))
	assert.Equal(t, 1, clampLimit(0))
	assert.Equal(t, 25, clampLimit(25))
	assert.Equal(t, 200, clampLimit(1000))
}

func TestGetCaseByLabel_Missing(t *testing.T) {
	db := newTestDB(t)
	c, err := db.GetCaseByLabel(context.Background(), testGuild, "W", 1)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestUpdateCaseReason_RecordsEachEdit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clock := newFakeClock(1_700_000_000)
	db.SetClock(clock.Now)

	nc := newCase("warn", 3)
	nc.Reason = "first"
	_, err := db.CreateCase(ctx, nc)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	updated, err := db.UpdateCaseReason(ctx, testGuild, "W", 1, 42, "second")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "second", updated.Reason)
	assert.Equal(t, int64(1_700_000_060), updated.UpdatedAt)

	clock.Advance(time.Minute)
	_, err = db.UpdateCaseReason(ctx, testGuild, "W", 1, 43, "third")
	require.NoError(t, err)

	events, err := db.GetCaseEvents(ctx, testGuild, "W", 1)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, model.CaseEventCreated, events[0].EventType)

	assert.Equal(t, model.CaseEventReasonUpdated, events[1].EventType)
	assert.Equal(t, int64(42), events[1].ActorUserID)
	assert.Equal(t, "first", *events[1].OldReason)
	assert.Equal(t, "second", *events[1].NewReason)

	assert.Equal(t, model.CaseEventReasonUpdated, events[2].EventType)
	assert.Equal(t, "second", *events[2].OldReason)
	assert.Equal(t, "third", *events[2].NewReason)
	assert.Less(t, events[1].CreatedAt, events[2].CreatedAt)

	stored, err := db.GetCaseByLabel(ctx, testGuild, "W", 1)
	require.NoError(t, err)
	assert.Equal(t, "third", stored.Reason)
}

func TestUpdateCaseReason_MissingCase(t *testing.T) {
	db := newTestDB(t)
	c, err := db.UpdateCaseReason(context.Background(), testGuild, "B", 4, 1, "x")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestAddCaseNote(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clock := newFakeClock(1_700_000_000)
	db.SetClock(clock.Now)

	_, err := db.CreateCase(ctx, newCase("kick", 3))
	require.NoError(t, err)

	_, found, err := db.GetLatestCaseNote(ctx, testGuild, "K", 1)
	require.NoError(t, err)
	assert.False(t, found)

	clock.Advance(time.Second)
	ok, err := db.AddCaseNote(ctx, testGuild, "K", 1, 50, "first note")
	require.NoError(t, err)
	assert.True(t, ok)
	clock.Advance(time.Second)
	ok, err = db.AddCaseNote(ctx, testGuild, "K", 1, 51, "second note")
	require.NoError(t, err)
	assert.True(t, ok)

	note, found, err := db.GetLatestCaseNote(ctx, testGuild, "K", 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second note", note)

	c, err := db.GetCaseByLabel(ctx, testGuild, "K", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_002), c.UpdatedAt)

	events, err := db.GetCaseEvents(ctx, testGuild, "K", 1)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	ok, err = db.AddCaseNote(ctx, testGuild, "K", 2, 50, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetCaseEvents_MissingCase(t *testing.T) {
	db := newTestDB(t)
	events, err := db.GetCaseEvents(context.Background(), testGuild, "W", 9)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestCountTimeoutCasesSince(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clock := newFakeClock(1_000)
	db.SetClock(clock.Now)

	for _, action := range []string{"timeout", "warn", "auto_timeout"} {
		_, err := db.CreateCase(ctx, newCase(action, 8))
		require.NoError(t, err)
	}
	clock.Set(5_000)
	for _, action := range []string{"word_filter_timeout", "ban", "timeout"} {
		_, err := db.CreateCase(ctx, newCase(action, 8))
		require.NoError(t, err)
	}
	_, err := db.CreateCase(ctx, newCase("timeout", 9))
	require.NoError(t, err)

	n, err := db.CountTimeoutCasesSince(ctx, testGuild, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = db.CountTimeoutCasesSince(ctx, testGuild, 8, 5_000)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
