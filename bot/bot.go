package bot

import (
	"sync/atomic"

	"discord-modbot/model"
	"discord-modbot/moderation"
	"discord-modbot/utils/cache"
	"discord-modbot/utils/database"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	Session            *discordgo.Session
	DB                 *database.DB
	Cache              *cache.Service
	Platform           *moderation.DiscordPlatform
	Publisher          *moderation.ModlogPublisher
	Engine             *moderation.Engine
	WordFilter         *moderation.WordFilter
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	scheduler          *Scheduler
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetScheduler() *Scheduler {
	return b.scheduler
}

// New creates the session and wires the moderation services around db.
func New(cfg *model.Config, db *database.DB, c *cache.Service) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	platform := moderation.NewDiscordPlatform(dg)
	publisher := moderation.NewModlogPublisher(db, dg, nil)
	engine := moderation.NewEngine(db, platform, publisher, nil)
	engine.SetGuildNamer(platform.GuildName)
	filter := moderation.NewWordFilter(db, platform, publisher, engine, nil)
	filter.SetGuildNamer(platform.GuildName)

	b := &Bot{
		Session:    dg,
		DB:         db,
		Cache:      c,
		Platform:   platform,
		Publisher:  publisher,
		Engine:     engine,
		WordFilter: filter,
	}
	b.config.Store(cfg)
	b.scheduler = NewScheduler()
	b.scheduler.Every("stats", StatsInterval, b.logStats)
	return b, nil
}

// BotUserID is the bot's own snowflake once the session is ready.
func (b *Bot) BotUserID() string {
	if b.Session.State != nil && b.Session.State.User != nil {
		return b.Session.State.User.ID
	}
	return ""
}
