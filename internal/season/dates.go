package season

import "time"

// MinutesPerDay is the number of rows a table holds per day
const MinutesPerDay = 1440

// DaysPerWeek is the length of a weekly table in days
const DaysPerWeek = 7

// Date returns midnight UTC of the given calendar day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day, keeping the calendar date in UTC
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

// Weekday returns the day of week with Monday = 0 and Sunday = 6
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % DaysPerWeek
}

// DaysBetween returns the number of calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}
