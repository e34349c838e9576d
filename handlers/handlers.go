package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"discord-modbot/bot"
	"discord-modbot/model"
	"discord-modbot/moderation"
	"discord-modbot/utils"
	"discord-modbot/utils/database"

	"github.com/bwmarrin/discordgo"
)

const (
	interactionTimeout = 15 * time.Second
	confirmationTTL    = 60 * time.Second
)

// Handler carries what the command handlers need from the bot.
type Handler struct {
	db            *database.DB
	bot           *bot.Bot
	platform      moderation.Enforcer
	notifier      moderation.Notifier
	engine        *moderation.Engine
	filter        *moderation.WordFilter
	pendingUnwarn *utils.PendingStore[unwarnRequest]
	logger        *slog.Logger

	pendingTerminate *utils.PendingStore[terminateRequest]
}

// Register wires the gateway event handlers onto the bot's session.
func Register(b *bot.Bot) *Handler {
	h := &Handler{
		db:            b.DB,
		bot:           b,
		platform:      b.Platform,
		notifier:      b.Publisher,
		engine:        b.Engine,
		filter:        b.WordFilter,
		pendingUnwarn: utils.NewPendingStore[unwarnRequest](confirmationTTL),
		logger:        slog.Default(),

		pendingTerminate: utils.NewPendingStore[terminateRequest](terminateTTL),
	}

	b.GetScheduler().Every("pending-confirmations", time.Minute, func(context.Context) {
		if n := h.pendingUnwarn.Sweep() + h.pendingTerminate.Sweep(); n > 0 {
			h.logger.Debug("expired confirmations swept", "count", n)
		}
	})

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("logged in", "user", r.User.Username, "guilds", len(r.Guilds))
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		h.handleInteractionCreate(s, i)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		h.handleMessageCreate(s, m)
	})
	return h
}

func (h *Handler) config() *model.Config {
	return h.bot.GetConfig()
}

func (h *Handler) botUserID(s *discordgo.Session) string {
	if s.State != nil && s.State.User != nil {
		return s.State.User.ID
	}
	return ""
}

func (h *Handler) allowed(s *discordgo.Session, i *discordgo.InteractionCreate, perm int64) bool {
	if i.GuildID == "" {
		utils.SendErrorResponse(s, i, "This command only works in servers.")
		return false
	}
	if !utils.CheckPermission(i, perm, h.config().DeveloperUserIDs) {
		utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
		return false
	}
	return true
}

func interactionContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), interactionTimeout)
}

// snowflake parses a Discord ID; invalid input yields 0.
func snowflake(id string) int64 {
	v, _ := strconv.ParseInt(id, 10, 64)
	return v
}

type optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

func toOptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	m := make(optionMap, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func (m optionMap) string(name string) string {
	if opt, ok := m[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func (m optionMap) int(name string, fallback int64) int64 {
	if opt, ok := m[name]; ok {
		return opt.IntValue()
	}
	return fallback
}

// user resolves a user option from the interaction's resolved data.
func (m optionMap) user(i *discordgo.InteractionCreate, name string) *discordgo.User {
	opt, ok := m[name]
	if !ok {
		return nil
	}
	id, _ := opt.Value.(string)
	if i.Type == discordgo.InteractionApplicationCommand {
		if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
			if u, ok := resolved.Users[id]; ok {
				return u
			}
		}
	}
	return &discordgo.User{ID: id}
}

// subcommand splits "/cmd sub ..." into the sub name and its options.
func subcommand(i *discordgo.InteractionCreate) (string, optionMap) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return "", optionMap{}
	}
	return options[0].Name, toOptionMap(options[0].Options)
}
