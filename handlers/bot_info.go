package handlers

import (
	"fmt"
	"runtime"
	"time"

	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func (h *Handler) handleBotInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cpuCount, _ := cpu.Counts(true)
	cpuUsage := "n/a"
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", percent[0])
	}

	memory := "n/a"
	if vm, err := mem.VirtualMemory(); err == nil {
		memory = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}

	platform, kernel := "n/a", "n/a"
	if info, err := host.Info(); err == nil {
		platform = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
		kernel = info.KernelVersion
	}

	guilds := 0
	if s.State != nil {
		guilds = len(s.State.Guilds)
	}

	ctx, cancel := interactionContext()
	defer cancel()
	dbStatus := string(h.db.Dialect())
	if err := h.db.PingContext(ctx); err != nil {
		dbStatus += " (unreachable)"
	}

	stats := h.bot.Cache.Snapshot()
	cacheMode := "in-process only"
	if h.bot.Cache.IsRedisEnabled() {
		cacheMode = "redis"
	}

	embed := &discordgo.MessageEmbed{
		Title: "Bot info",
		Color: utils.DefaultEmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: platform, Inline: true},
			{Name: "🔧 Kernel", Value: kernel, Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU usage", Value: cpuUsage, Inline: true},
			{Name: "🧠 Memory", Value: memory, Inline: true},
			{Name: "⏱️ Gateway latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "🌍 Guilds", Value: fmt.Sprintf("%d", guilds), Inline: true},
			{Name: "🗃️ Database", Value: dbStatus, Inline: true},
			{Name: "📦 Cache", Value: fmt.Sprintf("%s, %d hits / %d misses", cacheMode, stats.Hit, stats.Miss), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "System status · " + time.Now().UTC().Format("15:04 UTC"),
		},
	}
	respondEphemeralEmbed(s, i, embed)
}
