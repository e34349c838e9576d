package utils

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// CreatePaginationComponents creates previous/next buttons whose custom IDs
// are "<prefix>:<page>[:arg...]". Pages are 1-indexed.
func CreatePaginationComponents(currentPage, totalPages int, customIDPrefix string, args ...string) []discordgo.MessageComponent {
	if totalPages <= 1 {
		return nil
	}

	buttonArgs := ""
	if len(args) > 0 {
		buttonArgs = ":" + strings.Join(args, ":")
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.SecondaryButton,
					Disabled: currentPage <= 1,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage-1, buttonArgs),
				},
				discordgo.Button{
					Label:    fmt.Sprintf("%d / %d", currentPage, totalPages),
					Style:    discordgo.SecondaryButton,
					Disabled: true,
					CustomID: fmt.Sprintf("%s_counter", customIDPrefix),
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					Disabled: currentPage >= totalPages,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage+1, buttonArgs),
				},
			},
		},
	}
}

// TotalPages is ceil(total / perPage), at least 1.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// PageBounds returns the [start, end) slice bounds of page (1-indexed),
// clamping page into range.
func PageBounds(page, total, perPage int) (int, int, int) {
	pages := TotalPages(total, perPage)
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * perPage
	end := min(start+perPage, total)
	if start > total {
		start = total
	}
	return page, start, end
}
