package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDeadline(t *testing.T) {
	// Wednesday
	today := time.Date(2025, time.October, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"today", "today", date(2025, time.October, 15)},
		{"tomorrow", "Tomorrow", date(2025, time.October, 16)},
		{"relative days", "in 3 days", date(2025, time.October, 18)},
		{"relative weeks", "in 2 weeks", date(2025, time.October, 29)},
		{"relative month", "in 1 month", date(2025, time.November, 15)},
		{"weekday ahead", "friday", date(2025, time.October, 17)},
		{"same weekday goes to next week", "wednesday", date(2025, time.October, 22)},
		{"next weekday", "next mon", date(2025, time.October, 20)},
		{"end of week", "end of week", date(2025, time.October, 19)},
		{"end of month", "end of month", date(2025, time.October, 31)},
		{"end of year", "by end of year", date(2025, time.December, 31)},
		{"iso", "2025-12-01", date(2025, time.December, 1)},
		{"dotted", "01.12.2025", date(2025, time.December, 1)},
		{"dotted without year", "20.10", date(2025, time.October, 20)},
		{"dotted without year in the past", "01.02", date(2026, time.February, 1)},
		{"bare day this month", "22", date(2025, time.October, 22)},
		{"bare day already passed", "3", date(2025, time.November, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDeadline(tt.input, today)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDeadline_Rejects(t *testing.T) {
	today := date(2025, time.October, 15)
	for _, input := range []string{"", "someday", "32", "0", "in many days", "2025-13-01"} {
		_, ok := ParseDeadline(input, today)
		assert.False(t, ok, input)
	}
}

func TestIsSkipWord(t *testing.T) {
	for _, input := range []string{"no", "Skip", " none ", "-", ""} {
		assert.True(t, IsSkipWord(input), input)
	}
	assert.False(t, IsSkipWord("tomorrow"))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, time.October, 15, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.October, 17, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetween(a, b))
	assert.Equal(t, -2, DaysBetween(b, a))
}
