// Package calendar resolves business days within a month. A business day
// is Monday through Friday; holidays are not modeled.
package calendar

import (
	"fmt"
	"time"

	"fluxo/internal/core"
)

// IsBusinessDay reports whether t falls on a weekday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NthBusinessDay returns the date of the nth business day of the month,
// scanning forward from day 1. The second return is false when the month
// has fewer than n business days.
func NthBusinessDay(year, month, n int) (time.Time, bool, error) {
	if err := checkMonth(month); err != nil {
		return time.Time{}, false, err
	}
	if n < 1 {
		return time.Time{}, false, fmt.Errorf("%w: business day ordinal %d", core.ErrInvalidDay, n)
	}

	count := 0
	for day := 1; day <= daysIn(year, month); day++ {
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if !IsBusinessDay(d) {
			continue
		}
		count++
		if count == n {
			return d, true, nil
		}
	}
	return time.Time{}, false, nil
}

// LastBusinessDay returns the date of the last business day of the month,
// scanning backward from the month's final day. The second return mirrors
// NthBusinessDay; every valid month has at least one weekday, so it is
// false only in theory.
func LastBusinessDay(year, month int) (time.Time, bool, error) {
	if err := checkMonth(month); err != nil {
		return time.Time{}, false, err
	}

	for day := daysIn(year, month); day >= 1; day-- {
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if IsBusinessDay(d) {
			return d, true, nil
		}
	}
	return time.Time{}, false, nil
}

func checkMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %d", core.ErrInvalidMonth, month)
	}
	return nil
}

func daysIn(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
