package core

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// ValidateDate checks that s is a real calendar date in YYYY-MM-DD form.
func ValidateDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateMonth checks that s is a YYYY-MM month token.
func ValidateMonth(s string) error {
	if _, err := time.Parse(monthLayout, s); err != nil {
		return ErrInvalidMonth
	}
	return nil
}

// MonthOf returns the YYYY-MM token of a YYYY-MM-DD date string.
func MonthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthToken formats t as a YYYY-MM token.
func MonthToken(t time.Time) string {
	return t.Format(monthLayout)
}

// PrevMonth returns the calendar month before the given token, rolling
// January back into December of the prior year.
func PrevMonth(month string) (string, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", ErrInvalidMonth
	}
	return t.AddDate(0, -1, 0).Format(monthLayout), nil
}

// MonthBounds returns the inclusive date-range bounds for a month.
// The upper bound is always day 31; range queries compare dates as
// strings, so a nonexistent day 31 still covers every real date.
func MonthBounds(month string) (start, end string) {
	return month + "-01", month + "-31"
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(month string) (int, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return 0, ErrInvalidMonth
	}
	// Day zero of the next month is the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day(), nil
}

// DateInMonth places day inside month, clamping to the month's last valid
// day (day 31 in a 30-day month becomes day 30, day 29 in a non-leap
// February becomes day 28).
func DateInMonth(month string, day int) (string, error) {
	last, err := LastDayOfMonth(month)
	if err != nil {
		return "", err
	}
	if day < 1 {
		day = 1
	}
	if day > last {
		day = last
	}
	return fmt.Sprintf("%s-%02d", month, day), nil
}

// DayOf returns the day-of-month of a YYYY-MM-DD date string.
func DayOf(date string) (int, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, ErrInvalidDate
	}
	return t.Day(), nil
}
