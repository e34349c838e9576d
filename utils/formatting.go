package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"discord-modbot/model"
)

// FormatCaseLabel renders a label such as W12.
func FormatCaseLabel(code string, number int64) string {
	return strings.ToUpper(code) + strconv.FormatInt(number, 10)
}

// ParseCaseLabel splits "w12" into ("W", 12). It reports false for input
// without a letter prefix, without a number, or with a number below 1.
func ParseCaseLabel(raw string) (string, int64, bool) {
	input := strings.TrimSpace(raw)
	split := 0
	for split < len(input) && isASCIILetter(input[split]) {
		split++
	}
	if split == 0 || split >= len(input) {
		return "", 0, false
	}

	number, err := strconv.ParseInt(input[split:], 10, 64)
	if err != nil || number <= 0 || input[split] == '+' || input[split] == '-' {
		return "", 0, false
	}
	return strings.ToUpper(input[:split]), number, true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// FormatCompactDuration renders seconds as e.g. 59s, 1m 1s, 1h 1m 10s, 1d 1h.
// Day-scale values drop minutes and seconds.
func FormatCompactDuration(total int64) string {
	if total < 0 {
		total = 0
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	}

	if hours > 0 {
		parts := []string{fmt.Sprintf("%dh", hours)}
		if minutes > 0 {
			parts = append(parts, fmt.Sprintf("%dm", minutes))
		}
		if seconds > 0 {
			parts = append(parts, fmt.Sprintf("%ds", seconds))
		}
		return strings.Join(parts, " ")
	}

	if minutes > 0 {
		if seconds > 0 {
			return fmt.Sprintf("%dm %ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", seconds)
}

var actionNames = map[model.Action]string{
	model.ActionWarn:      "Warn",
	model.ActionBan:       "Ban",
	model.ActionKick:      "Kick",
	model.ActionTimeout:   "Timeout",
	model.ActionUnban:     "Unban",
	model.ActionUntimeout: "Untimeout",
	model.ActionUnwarn:    "Unwarn",
	model.ActionUnwarnAll: "Unwarn All",
	model.ActionPurge:     "Purge",
	model.ActionTerminate: "Terminate",
}

// ActionDisplayName turns an action key into a title, e.g. custom_action
// becomes "Custom Action".
func ActionDisplayName(action string) string {
	if name, ok := actionNames[model.Action(action)]; ok {
		return name
	}

	var words []string
	for _, part := range strings.Split(strings.TrimSpace(action), "_") {
		if part == "" {
			continue
		}
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		words = append(words, string(runes))
	}
	if len(words) == 0 {
		return "Unknown"
	}
	return strings.Join(words, " ")
}

// EventDisplayName labels a case event type.
func EventDisplayName(eventType string) string {
	switch eventType {
	case model.CaseEventCreated:
		return "Created"
	case model.CaseEventReasonUpdated:
		return "Reason Updated"
	case model.CaseEventNoteAdded:
		return "Note Added"
	default:
		return "Updated"
	}
}

// DefuseMentions breaks @everyone style mentions in user-supplied text.
func DefuseMentions(s string) string {
	return strings.ReplaceAll(s, "@", "@\u200B")
}

// DiscordTimestamp renders "<t:X:R> • <t:X:f>".
func DiscordTimestamp(unix int64) string {
	return fmt.Sprintf("<t:%d:R> • <t:%d:f>", unix, unix)
}
