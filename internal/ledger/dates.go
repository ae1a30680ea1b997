package ledger

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only date form accepted in forms and files.
const DateLayout = "2006-01-02"

// maxMonthOffset bounds AddMonths to a few thousand years either way.
const maxMonthOffset = 12 * 5000

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the length of month in year.
func DaysInMonth(year int, month time.Month) (int, error) {
	switch month {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31, nil
	case time.April, time.June, time.September, time.November:
		return 30, nil
	case time.February:
		if IsLeapYear(year) {
			return 29, nil
		}
		return 28, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
}

// AddMonths moves d by delta whole months, clamping the day to the last day
// of the resulting month.
func AddMonths(d time.Time, delta int) (time.Time, error) {
	if delta > maxMonthOffset || delta < -maxMonthOffset {
		return time.Time{}, fmt.Errorf("%w: %d", ErrMonthOffsetRange, delta)
	}
	total := d.Year()*12 + int(d.Month()-1) + delta
	year := total / 12
	if total%12 < 0 {
		year--
	}
	month := time.Month(total-year*12) + 1
	last, err := DaysInMonth(year, month)
	if err != nil {
		return time.Time{}, err
	}
	day := d.Day()
	if day > last {
		day = last
	}
	return Date(year, month, day), nil
}

// Date builds a calendar date (UTC midnight).
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the time of day from t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatDate renders t in DateLayout; the zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
