package defs

import (
	"discord-modbot/model"

	"github.com/bwmarrin/discordgo"
)

func subCommand(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

func stringOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

var Escalation = &discordgo.ApplicationCommand{
	Name:                     "escalation",
	Description:              "Configure automatic timeouts for repeated warnings",
	DefaultMemberPermissions: &managePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		subCommand("enable", "Turn automatic escalation on"),
		subCommand("disable", "Turn automatic escalation off"),
		subCommand("status", "Show the current escalation settings"),
		subCommand("warns", "Warnings needed inside the window to trigger a timeout",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: "Warning threshold",
				Required:    true,
				MinValue:    floatPtr(1),
				MaxValue:    50,
			}),
		subCommand("warnwindow", "How far back warnings are counted",
			stringOption("duration", "e.g. 12h, 1d, 7d")),
		subCommand("timeoutwindow", "How far back earlier timeouts raise the tier",
			stringOption("duration", "e.g. 7d, 30d")),
	},
}

var ModlogChannel = &discordgo.ApplicationCommand{
	Name:                     "modlogchannel",
	Description:              "Configure where cases are published",
	DefaultMemberPermissions: &managePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		subCommand("set", "Publish cases to a channel",
			&discordgo.ApplicationCommandOption{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         "channel",
				Description:  "Modlog channel",
				Required:     true,
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
			}),
		subCommand("clear", "Stop publishing cases"),
		subCommand("show", "Show the modlog channel"),
	},
}

func filterActionChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(model.ValidFilterActions))
	for _, a := range model.ValidFilterActions {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: model.FilterActionLabel(a), Value: a})
	}
	return choices
}

var WordFilter = &discordgo.ApplicationCommand{
	Name:                     "wordfilter",
	Description:              "Configure the word filter",
	DefaultMemberPermissions: &managePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		subCommand("enable", "Turn the word filter on"),
		subCommand("disable", "Turn the word filter off"),
		subCommand("action", "Choose what happens on a match",
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "action",
				Description: "Filter action",
				Required:    true,
				Choices:     filterActionChoices(),
			}),
		subCommand("add", "Add a word or phrase", stringOption("word", "Word or phrase")),
		subCommand("remove", "Remove a word or phrase", stringOption("word", "Word or phrase")),
		subCommand("list", "Show the filter settings and words"),
	},
}

var BotInfo = &discordgo.ApplicationCommand{
	Name:        "botinfo",
	Description: "Display bot and system status information",
}
