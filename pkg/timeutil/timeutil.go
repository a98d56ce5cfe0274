package timeutil

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// MinutesOfDay parses an HH:mm or HH:mm:ss string into minutes since
// midnight.
func MinutesOfDay(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m > 0) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return h*60 + m, nil
}

// FormatMinutes renders minutes since midnight as HH:mm.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// WeekdayIndex returns the Monday-first weekday index (0-6) of a date, or
// 0 if the date does not parse.
func WeekdayIndex(date string) int {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0
	}
	return (int(t.Weekday()) + 6) % 7
}

// WeekIndexInMonth returns the zero-based row of the date within a
// Monday-first month grid.
func WeekIndexInMonth(date string) int {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	return (offset + t.Day() - 1) / 7
}

// WeeksIn returns the number of rows a Monday-first grid needs for the
// month containing date. A trailing partial week counts as a full row.
func WeeksIn(date string) int {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 6
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	days := first.AddDate(0, 1, -1).Day()
	return (offset + days + 6) / 7
}
