package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// TodayInTimezone returns today's calendar date in the specified timezone.
func TodayInTimezone(timezone string) (time.Time, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(now), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// DateOf strips the clock and zone from t, returning its calendar date at
// midnight UTC. All date arithmetic in the planner happens on these values.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// ParseDateLenient parses YYYY-MM-DD without ever failing. Components that
// cannot be read default to zero and the result is normalized by time.Date,
// so "2024-02-30" becomes 2024-03-01. Any clock suffix ("2024-06-01 10:00")
// is ignored.
func ParseDateLenient(dateStr string) time.Time {
	s := strings.TrimSpace(dateStr)
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	parts := strings.SplitN(s, "-", 3)
	year := componentAt(parts, 0)
	month := componentAt(parts, 1)
	day := componentAt(parts, 2)
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// FormatDate formats a calendar date in the standard format (YYYY-MM-DD).
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockMinutes reads an HH:MM string leniently and returns minutes from
// midnight. ok is false when the hour component is missing or unreadable;
// an unreadable minute component counts as zero.
func ClockMinutes(timeStr string) (minutes int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(timeStr), ":", 2)
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	return hour*60 + componentAt(parts, 1), true
}

// FormatMinutes renders minutes from midnight as HH:MM.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWeekStart maps a configured week start name to a weekday.
// Anything other than "sunday" means Monday.
func ParseWeekStart(name string) time.Weekday {
	if strings.EqualFold(strings.TrimSpace(name), constants.WeekStartSunday) {
		return time.Sunday
	}
	return time.Monday
}

// WeekStart returns the first day of the week containing date.
func WeekStart(date time.Time, firstDay time.Weekday) time.Time {
	date = DateOf(date)
	offset := (int(date.Weekday()) - int(firstDay) + 7) % 7
	return date.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of the month containing date.
func MonthStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func componentAt(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return n
}
