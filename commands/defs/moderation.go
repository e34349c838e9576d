package defs

import "github.com/bwmarrin/discordgo"

var (
	moderatePerms int64 = discordgo.PermissionModerateMembers
	kickPerms     int64 = discordgo.PermissionKickMembers
	banPerms      int64 = discordgo.PermissionBanMembers
	managePerms   int64 = discordgo.PermissionManageGuild
	purgePerms    int64 = discordgo.PermissionManageMessages
	banPurgePerms       = banPerms | purgePerms
	guildOnly           = false
)

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

func reasonOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason recorded on the case",
		Required:    required,
		MaxLength:   512,
	}
}

var Warn = &discordgo.ApplicationCommand{
	Name:                     "warn",
	Description:              "Warn a member and record a case",
	DefaultMemberPermissions: &moderatePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to warn"),
		reasonOption(true),
	},
}

var Warnings = &discordgo.ApplicationCommand{
	Name:                     "warnings",
	Description:              "List a member's warnings",
	DefaultMemberPermissions: &moderatePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to look up"),
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "window",
			Description: "Days to look back (default 30) or \"all\"",
			Required:    false,
		},
	},
}

var Unwarn = &discordgo.ApplicationCommand{
	Name:                     "unwarn",
	Description:              "Remove one warning or all of them",
	DefaultMemberPermissions: &moderatePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to unwarn"),
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "target",
			Description: "Warning number from /warnings, or \"all\"",
			Required:    true,
		},
		reasonOption(false),
	},
}

var Case = &discordgo.ApplicationCommand{
	Name:                     "case",
	Description:              "View or edit a moderation case",
	DefaultMemberPermissions: &moderatePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "view",
			Description: "Show a case and its history",
			Options:     []*discordgo.ApplicationCommandOption{labelOption()},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "reason",
			Description: "Change a case's reason",
			Options: []*discordgo.ApplicationCommandOption{
				labelOption(),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "New reason",
					Required:    true,
					MaxLength:   512,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "note",
			Description: "Attach a note to a case",
			Options: []*discordgo.ApplicationCommandOption{
				labelOption(),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "note",
					Description: "Note text",
					Required:    true,
					MaxLength:   1000,
				},
			},
		},
	},
}

func labelOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "label",
		Description: "Case label, e.g. W12",
		Required:    true,
	}
}

var Modlogs = &discordgo.ApplicationCommand{
	Name:                     "modlogs",
	Description:              "List recent moderation cases",
	DefaultMemberPermissions: &moderatePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Only cases against this member",
		},
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "moderator",
			Description: "Only cases by this moderator",
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "action",
			Description: "Only this action, e.g. warn",
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limit",
			Description: "How many cases to fetch (max 200)",
		},
	},
}

var Timeout = &discordgo.ApplicationCommand{
	Name:                     "timeout",
	Description:              "Time a member out",
	DefaultMemberPermissions: &moderatePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to time out"),
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "e.g. 10m, 1h30m, 1d (default 10m, max 28d)",
		},
		reasonOption(false),
	},
}

var Untimeout = &discordgo.ApplicationCommand{
	Name:                     "untimeout",
	Description:              "Lift a member's timeout",
	DefaultMemberPermissions: &moderatePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to release"),
		reasonOption(false),
	},
}

var Kick = &discordgo.ApplicationCommand{
	Name:                     "kick",
	Description:              "Kick a member",
	DefaultMemberPermissions: &kickPerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("Member to kick"),
		reasonOption(false),
	},
}

var Ban = &discordgo.ApplicationCommand{
	Name:                     "ban",
	Description:              "Ban a user",
	DefaultMemberPermissions: &banPerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to ban"),
		reasonOption(false),
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "delete_days",
			Description: "Days of messages to delete (0-7)",
			MinValue:    floatPtr(0),
			MaxValue:    7,
		},
	},
}

var Unban = &discordgo.ApplicationCommand{
	Name:                     "unban",
	Description:              "Lift a user's ban",
	DefaultMemberPermissions: &banPerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to unban"),
		reasonOption(false),
	},
}

var Purge = &discordgo.ApplicationCommand{
	Name:                     "purge",
	Description:              "Delete recent messages in this channel",
	DefaultMemberPermissions: &purgePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "How many messages to delete (1-100)",
			Required:    true,
			MinValue:    floatPtr(1),
			MaxValue:    100,
		},
		reasonOption(false),
	},
}

var Terminate = &discordgo.ApplicationCommand{
	Name:                     "terminate",
	Description:              "Ban a user and delete their recent messages",
	DefaultMemberPermissions: &banPurgePerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to terminate"),
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "period",
			Description: "Message history to delete, e.g. 12h or 3d (default and max 7d)",
		},
		reasonOption(false),
	},
}

func floatPtr(v float64) *float64 {
	return &v
}
