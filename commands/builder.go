package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"discord-modbot/commands/defs"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"
)

// GenerateCommands returns every slash command the bot serves.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Warn,
		defs.Warnings,
		defs.Unwarn,
		defs.Case,
		defs.Modlogs,
		defs.Timeout,
		defs.Untimeout,
		defs.Kick,
		defs.Ban,
		defs.Unban,
		defs.Purge,
		defs.Terminate,
		defs.Escalation,
		defs.ModlogChannel,
		defs.WordFilter,
		defs.BotInfo,
	}
}

// Overwriter is satisfied by *discordgo.Session.
type Overwriter interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Register bulk-overwrites the command set for each guild in parallel. With
// no guild IDs the commands are registered globally.
func Register(ctx context.Context, s Overwriter, appID string, guildIDs []string) ([]*discordgo.ApplicationCommand, error) {
	cmds := GenerateCommands()
	if len(guildIDs) == 0 {
		guildIDs = []string{""}
	}

	var (
		mu         sync.Mutex
		registered []*discordgo.ApplicationCommand
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, guildID := range guildIDs {
		guildID := guildID
		g.Go(func() error {
			out, err := s.ApplicationCommandBulkOverwrite(appID, guildID, cmds, discordgo.WithContext(ctx))
			if err != nil {
				return fmt.Errorf("cannot register commands for guild %q: %w", guildID, err)
			}
			slog.Info("registered commands", "guild_id", guildID, "count", len(out))
			mu.Lock()
			registered = append(registered, out...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return registered, err
	}
	return registered, nil
}
