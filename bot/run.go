package bot

import (
	"context"
	"fmt"
	"log/slog"

	"discord-modbot/commands"
)

// Run opens the gateway, registers commands and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	defer b.Close()

	cfg := b.GetConfig()
	appID := cfg.AppID
	if appID == "" {
		appID = b.BotUserID()
	}
	registered, err := commands.Register(ctx, b.Session, appID, cfg.GuildIDs)
	if err != nil {
		slog.Error("command registration failed", "error", err)
	}
	b.RegisteredCommands = registered

	b.scheduler.Start(ctx)

	slog.Info("bot is now running", "user", b.BotUserID(), "commands", len(registered))
	<-ctx.Done()
	return nil
}

func (b *Bot) Close() {
	slog.Info("gracefully shutting down")
	b.scheduler.Stop()
	if err := b.Session.Close(); err != nil {
		slog.Warn("error closing session", "error", err)
	}
}
