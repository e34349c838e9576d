package utils

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseDurationSeconds parses compact durations such as 30s, 10m, 2h, 1d,
// 1h30m or plain seconds. Zero segments, unknown units, a bare number after
// a unit segment, and overflow are rejected.
func ParseDurationSeconds(raw string) (int64, bool) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if compact == "" {
		return 0, false
	}

	var total int64
	sawUnit := false
	i := 0
	for i < len(compact) {
		start := i
		for i < len(compact) && compact[i] >= '0' && compact[i] <= '9' {
			i++
		}
		if start == i {
			return 0, false
		}
		n, err := strconv.ParseInt(compact[start:i], 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}

		multiplier := int64(1)
		if i < len(compact) {
			switch compact[i] {
			case 's', 'S':
				multiplier = 1
			case 'm', 'M':
				multiplier = 60
			case 'h', 'H':
				multiplier = 3600
			case 'd', 'D':
				multiplier = 86400
			default:
				return 0, false
			}
			i++
			sawUnit = true
		} else if sawUnit {
			return 0, false
		}

		if n > math.MaxInt64/multiplier {
			return 0, false
		}
		part := n * multiplier
		if total > math.MaxInt64-part {
			return 0, false
		}
		total += part
	}
	return total, total > 0
}

// HasDurationUnit reports whether raw ends with a duration unit letter.
func HasDurationUnit(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return false
	}
	switch v[len(v)-1] {
	case 's', 'S', 'm', 'M', 'h', 'H', 'd', 'D':
		return true
	}
	return false
}
