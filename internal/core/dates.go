package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MonthLayout = "2006-01"
	DayLayout   = "2006-01-02"
	// InstantLayout matches JavaScript's Date.toISOString output.
	InstantLayout = "2006-01-02T15:04:05.000Z"
)

// MonthKey returns the YYYY-MM prefix of an ISO date string. Month filtering
// is a string-prefix match on purpose; no calendar or timezone parsing.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// InMonth reports whether the ISO date string belongs to month (YYYY-MM).
func InMonth(date, month string) bool {
	return month != "" && strings.HasPrefix(date, month)
}

// OnDay reports whether the ISO date string belongs to day (YYYY-MM-DD).
func OnDay(date, day string) bool {
	return day != "" && strings.HasPrefix(date, day)
}

// CurrentMonth returns now's month key in UTC.
func CurrentMonth(now time.Time) string {
	return now.UTC().Format(MonthLayout)
}

// DayKey returns now's day key in UTC.
func DayKey(now time.Time) string {
	return now.UTC().Format(DayLayout)
}

// FormatInstant formats t the way stored records expect.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// PreviousMonth decrements the month number and rolls the year at zero.
// Malformed input returns an empty string.
func PreviousMonth(month string) string {
	year, m, err := splitMonth(month)
	if err != nil {
		return ""
	}
	m--
	if m == 0 {
		m = 12
		year--
	}
	return fmt.Sprintf("%04d-%02d", year, m)
}

func splitMonth(month string) (int, int, error) {
	if len(month) != 7 || month[4] != '-' {
		return 0, 0, ErrInvalidMonth
	}
	year, err := strconv.Atoi(month[:4])
	if err != nil {
		return 0, 0, ErrInvalidMonth
	}
	m, err := strconv.Atoi(month[5:])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, ErrInvalidMonth
	}
	return year, m, nil
}

// ValidateMonth checks the YYYY-MM format.
func ValidateMonth(month string) error {
	_, _, err := splitMonth(month)
	return err
}

// ParseInstant accepts full ISO-8601 instants as well as bare dates.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", DayLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ValidateDate requires a parseable ISO-8601 date.
func ValidateDate(s string) error {
	if _, err := ParseInstant(s); err != nil {
		return ErrInvalidDate
	}
	return nil
}
