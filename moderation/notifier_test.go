package moderation

import (
	"context"
	"errors"
	"testing"

	"discord-modbot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModlogStore struct {
	channel *int64
	err     error
}

func (s fakeModlogStore) GetModlogChannelID(context.Context, int64) (*int64, error) {
	return s.channel, s.err
}

type fakeSender struct {
	channels []string
	embeds   []*discordgo.MessageEmbed
	err      error
}

func (s *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.channels = append(s.channels, channelID)
	s.embeds = append(s.embeds, embed)
	return &discordgo.Message{}, s.err
}

func sampleCase() *model.CaseSummary {
	return &model.CaseSummary{
		GuildID:          testGuild,
		CaseNumber:       7,
		CaseCode:         "T",
		ActionCaseNumber: 3,
		TargetUserID:     model.Int64Ptr(testUser),
		ModeratorUserID:  9,
		Action:           "timeout",
		Reason:           "pinged @everyone",
		DurationSeconds:  model.Int64Ptr(3660),
		CreatedAt:        1_700_000_000,
	}
}

func TestCaseEmbed(t *testing.T) {
	embed := CaseEmbed(sampleCase(), "")
	assert.Equal(t, "#T3", embed.Title)
	assert.Equal(t, "**Action :** Timeout\n"+
		"**Target :** <@42>\n"+
		"**Reason :** pinged @\u200Beveryone\n"+
		"**Duration :** 1h 1m\n"+
		"**Moderator :** <@9>\n"+
		"**When :** <t:1700000000:R> • <t:1700000000:f>", embed.Description)

	c := sampleCase()
	c.TargetUserID = nil
	c.DurationSeconds = nil
	c.Reason = ""
	embed = CaseEmbed(c, "")
	assert.NotContains(t, embed.Description, "Target")
	assert.NotContains(t, embed.Description, "Duration")
	assert.Contains(t, embed.Description, noReason)
}

func TestTargetDMEmbed(t *testing.T) {
	embed := TargetDMEmbed("Guild", "warned", "", 0)
	assert.Equal(t, "You have been warned in Guild", embed.Title)
	assert.Equal(t, "No additional details were provided.", embed.Description)
}

func TestModlogPublisher(t *testing.T) {
	ctx := context.Background()

	sender := &fakeSender{}
	p := NewModlogPublisher(fakeModlogStore{}, sender, nil)
	require.NoError(t, p.PublishCase(ctx, testGuildStr, sampleCase(), ""))
	assert.Empty(t, sender.embeds, "no modlog channel configured")

	p = NewModlogPublisher(fakeModlogStore{channel: model.Int64Ptr(1234)}, sender, nil)
	require.NoError(t, p.PublishCase(ctx, testGuildStr, sampleCase(), ""))
	assert.Equal(t, []string{"1234"}, sender.channels)

	sender.err = errors.New("missing access")
	assert.Error(t, p.PublishCase(ctx, testGuildStr, sampleCase(), ""))

	p = NewModlogPublisher(fakeModlogStore{err: errors.New("db down")}, sender, nil)
	assert.Error(t, p.PublishCase(ctx, testGuildStr, sampleCase(), ""))
	assert.Error(t, p.PublishCase(ctx, "not-a-snowflake", sampleCase(), ""))
}
