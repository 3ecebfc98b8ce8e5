// Package normalize converts locale-ambiguous date strings and symbol-laden
// amount strings into canonical values.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseableDate marks a date string that could not be resolved. Rows
// carrying one are skipped, never defaulted to today.
var ErrUnparseableDate = errors.New("unparseable date")

// DateOrder is the component ordering of a numeric date string.
type DateOrder string

const (
	DayFirst   DateOrder = "day-first"   // 15/04/2025
	MonthFirst DateOrder = "month-first" // 04/15/2025
	YearFirst  DateOrder = "year-first"  // 2025-04-15
)

// ParseDate resolves a date string using the ordering hint from the detected
// statement format. Separators may be '/', '-' or '.'. Two-digit years below
// 50 map to 20xx, the rest to 19xx. The constructed date is validated by
// round-trip, so 31/04/2025 is rejected rather than normalized to May 1.
func ParseDate(s string, order DateOrder) (time.Time, error) {
	parts := splitDate(s)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
		}
		nums[i] = n
	}

	var day, month, year int
	switch order {
	case MonthFirst:
		month, day, year = nums[0], nums[1], nums[2]
	case YearFirst:
		year, month, day = nums[0], nums[1], nums[2]
	default:
		day, month, year = nums[0], nums[1], nums[2]
	}

	if year < 100 {
		if len(parts[yearIndex(order)]) > 2 {
			// "015" style years are garbage, not shorthand.
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
		}
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
	}
	return d, nil
}

// ParseDayMonth resolves a "DD/MM" string against an explicit reference
// year. Manual expense logs omit the year; the caller must supply one.
func ParseDayMonth(s string, refYear int) (time.Time, error) {
	parts := splitDate(s)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
	}
	d := time.Date(refYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != refYear || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
	}
	return d, nil
}

func yearIndex(order DateOrder) int {
	if order == YearFirst {
		return 0
	}
	return 2
}

func splitDate(s string) []string {
	s = strings.TrimSpace(s)
	f := func(r rune) bool { return r == '/' || r == '-' || r == '.' }
	return strings.FieldsFunc(s, f)
}
