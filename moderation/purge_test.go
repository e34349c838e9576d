package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	messages   []*discordgo.Message
	askedLimit int
	bulk       [][]string
	single     []string
	fetchErr   error
	deleteErr  error
}

func (c *fakeChannel) ChannelMessages(_ string, limit int, _, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	c.askedLimit = limit
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.messages[:min(limit, len(c.messages))], nil
}

func (c *fakeChannel) ChannelMessagesBulkDelete(_ string, ids []string, _ ...discordgo.RequestOption) error {
	c.bulk = append(c.bulk, ids)
	return c.deleteErr
}

func (c *fakeChannel) ChannelMessageDelete(_, id string, _ ...discordgo.RequestOption) error {
	c.single = append(c.single, id)
	return c.deleteErr
}

var purgeNow = time.Unix(1_700_000_000, 0)

func recent(ids ...string) []*discordgo.Message {
	out := make([]*discordgo.Message, 0, len(ids))
	for _, id := range ids {
		out = append(out, &discordgo.Message{ID: id, Timestamp: purgeNow.Add(-time.Hour)})
	}
	return out
}

func TestPurgeMessagesBulkDeletes(t *testing.T) {
	ch := &fakeChannel{messages: recent("3", "2", "1")}

	n, err := purgeMessages(context.Background(), ch, "777", 3, purgeNow)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, [][]string{{"3", "2", "1"}}, ch.bulk)
	assert.Empty(t, ch.single)
}

func TestPurgeMessagesSingleMessageUsesPlainDelete(t *testing.T) {
	ch := &fakeChannel{messages: recent("9")}

	n, err := purgeMessages(context.Background(), ch, "777", 10, purgeNow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"9"}, ch.single)
	assert.Empty(t, ch.bulk)
}

func TestPurgeMessagesClampsLimit(t *testing.T) {
	ch := &fakeChannel{}
	_, err := purgeMessages(context.Background(), ch, "777", 500, purgeNow)
	require.NoError(t, err)
	assert.Equal(t, MaxPurge, ch.askedLimit)

	_, err = purgeMessages(context.Background(), ch, "777", 0, purgeNow)
	require.NoError(t, err)
	assert.Equal(t, 1, ch.askedLimit)
}

func TestPurgeMessagesSkipsMessagesTooOldForBulkDelete(t *testing.T) {
	msgs := recent("5", "4")
	msgs = append(msgs, &discordgo.Message{ID: "1", Timestamp: purgeNow.Add(-15 * 24 * time.Hour)})
	ch := &fakeChannel{messages: msgs}

	n, err := purgeMessages(context.Background(), ch, "777", 3, purgeNow)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, [][]string{{"5", "4"}}, ch.bulk)

	old := &fakeChannel{messages: msgs[2:]}
	n, err = purgeMessages(context.Background(), old, "777", 3, purgeNow)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, old.bulk)
	assert.Empty(t, old.single)
}

func TestPurgeMessagesErrors(t *testing.T) {
	forbidden := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}}

	ch := &fakeChannel{messages: recent("2", "1"), deleteErr: forbidden}
	n, err := purgeMessages(context.Background(), ch, "777", 2, purgeNow)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.True(t, IsMissingPermissions(err))

	ch = &fakeChannel{fetchErr: errors.New("gateway closed")}
	_, err = purgeMessages(context.Background(), ch, "777", 2, purgeNow)
	require.Error(t, err)
	assert.False(t, IsMissingPermissions(err))
}
