package utils

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestFormatCaseLabel(t *testing.T) {
	assert.Equal(t, "W12", FormatCaseLabel("w", 12))
	assert.Equal(t, "UWA3", FormatCaseLabel("uwa", 3))
}

func TestParseCaseLabel(t *testing.T) {
	cases := []struct {
		in     string
		code   string
		number int64
		ok     bool
	}{
		{"w12", "W", 12, true},
		{"UWA3", "UWA", 3, true},
		{"  t5  ", "T", 5, true},
		{"12", "", 0, false},
		{"W0", "", 0, false},
		{"", "", 0, false},
		{"W", "", 0, false},
		{"W-3", "", 0, false},
		{"W+3", "", 0, false},
		{"W3x", "", 0, false},
	}
	for _, tc := range cases {
		code, number, ok := ParseCaseLabel(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.code, code, tc.in)
		assert.Equal(t, tc.number, number, tc.in)
	}
}

func TestCaseLabelRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("parse(format(code, n)) == (upper(code), n)", prop.ForAll(
		func(code string, n int64) bool {
			gotCode, gotN, ok := ParseCaseLabel(FormatCaseLabel(code, n))
			return ok && gotN == n && gotCode == strings.ToUpper(code)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}

func TestFormatCompactDuration(t *testing.T) {
	cases := map[int64]string{
		0:      "0s",
		59:     "59s",
		60:     "1m",
		61:     "1m 1s",
		3600:   "1h",
		3660:   "1h 1m",
		3670:   "1h 1m 10s",
		3605:   "1h 5s",
		86400:  "1d",
		90000:  "1d 1h",
		90061:  "1d 1h",
		604800: "7d",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCompactDuration(in), "%d", in)
	}
}

func TestParseDurationSeconds(t *testing.T) {
	ok := map[string]int64{
		"30s":     30,
		"10m":     600,
		"2h":      7200,
		"1d":      86400,
		"1h30m":   5400,
		"1h 30m":  5400,
		"45":      45,
		"1D 2H":   93600,
		"1m1":     0,
		"0m":      0,
		"":        0,
		"abc":     0,
		"5x":      0,
		"m5":      0,
		"99999999999999999999s": 0,
	}
	for in, want := range ok {
		got, parsed := ParseDurationSeconds(in)
		assert.Equal(t, want != 0, parsed, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCompactDurationParsesBack(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("sub-day durations survive format then parse", prop.ForAll(
		func(n int64) bool {
			got, ok := ParseDurationSeconds(FormatCompactDuration(n))
			return ok && got == n
		},
		gen.Int64Range(1, 86399),
	))

	properties.TestingRun(t)
}

func TestHasDurationUnit(t *testing.T) {
	assert.True(t, HasDurationUnit("10m "))
	assert.False(t, HasDurationUnit("10"))
	assert.False(t, HasDurationUnit(""))
}

func TestActionDisplayName(t *testing.T) {
	assert.Equal(t, "Warn", ActionDisplayName("warn"))
	assert.Equal(t, "Unwarn All", ActionDisplayName("unwarn_all"))
	assert.Equal(t, "Custom Action", ActionDisplayName("custom_action"))
	assert.Equal(t, "Auto Timeout", ActionDisplayName("auto_timeout"))
	assert.Equal(t, "Word Filter Delete", ActionDisplayName("word_filter_delete"))
	assert.Equal(t, "Unknown", ActionDisplayName("  "))
	assert.Equal(t, "Unknown", ActionDisplayName("__"))
}

func TestEventDisplayName(t *testing.T) {
	assert.Equal(t, "Created", EventDisplayName("created"))
	assert.Equal(t, "Reason Updated", EventDisplayName("reason_updated"))
	assert.Equal(t, "Note Added", EventDisplayName("note_added"))
	assert.Equal(t, "Updated", EventDisplayName("something_else"))
}

func TestDefuseMentions(t *testing.T) {
	assert.Equal(t, "hi @\u200Beveryone", DefuseMentions("hi @everyone"))
}
