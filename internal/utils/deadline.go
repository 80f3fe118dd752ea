package utils

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

var skipWords = []string{"", "-", "no", "none", "skip", "/skip", "нет", "пропустить"}

// IsSkipWord reports whether the user chose to leave an optional wizard field empty.
func IsSkipWord(text string) bool {
	return slices.Contains(skipWords, strings.ToLower(strings.TrimSpace(text)))
}

var (
	relativePattern = regexp.MustCompile(`^in\s+(\d+)\s+(day|days|week|weeks|month|months|year|years)$`)
	dayOnlyPattern  = regexp.MustCompile(`^\d{1,2}$`)
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var dateLayouts = []string{"2006-01-02", "02.01.2006", "2.1.2006", "02/01/2006"}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDeadline understands a small set of relative phrases and common date layouts.
// It is best effort: anything else reports false.
func ParseDeadline(text string, today time.Time) (time.Time, bool) {
	today = DateOnly(today)
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimPrefix(s, "by ")
	s = strings.TrimPrefix(s, "until ")
	s = strings.TrimPrefix(s, "on ")

	switch s {
	case "":
		return time.Time{}, false
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "day after tomorrow":
		return today.AddDate(0, 0, 2), true
	case "end of week", "end of the week":
		return today.AddDate(0, 0, (7-int(today.Weekday()))%7), true
	case "end of month", "end of the month":
		return time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, time.UTC), true
	case "end of year", "end of the year":
		return time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), true
	}

	if m := relativePattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		switch strings.TrimSuffix(m[2], "s") {
		case "day":
			return today.AddDate(0, 0, n), true
		case "week":
			return today.AddDate(0, 0, 7*n), true
		case "month":
			return today.AddDate(0, n, 0), true
		case "year":
			return today.AddDate(n, 0, 0), true
		}
	}

	if wd, ok := weekdays[strings.TrimPrefix(s, "next ")]; ok {
		ahead := int(wd) - int(today.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		return today.AddDate(0, 0, ahead), true
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}

	// DD.MM without a year: the next occurrence from today.
	if d, err := time.Parse("02.01", s); err == nil {
		candidate := time.Date(today.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		if candidate.Before(today) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		return candidate, true
	}

	// A bare day of month: this month, or next month once it has passed.
	if dayOnlyPattern.MatchString(s) {
		day, _ := strconv.Atoi(s)
		if day < 1 || day > 31 {
			return time.Time{}, false
		}
		candidate := time.Date(today.Year(), today.Month(), day, 0, 0, 0, 0, time.UTC)
		if candidate.Month() != today.Month() || candidate.Before(today) {
			candidate = time.Date(today.Year(), today.Month()+1, day, 0, 0, 0, 0, time.UTC)
		}
		return candidate, true
	}

	return time.Time{}, false
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
