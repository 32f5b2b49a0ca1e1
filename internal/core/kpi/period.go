// Package kpi contains the pure business logic for KPI operations:
// month-key arithmetic, period rollups and green/red status derivation.
package kpi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseMonthKey splits a "YYYY-MM" key into year and month.
func ParseMonthKey(key string) (year, month int, err error) {
	parts := strings.Split(strings.TrimSpace(key), "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid month key %q: want YYYY-MM", key)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month key %q: month out of range", key)
	}
	return year, month, nil
}

// ValidMonthKey reports whether key is a well-formed "YYYY-MM" key.
func ValidMonthKey(key string) bool {
	_, _, err := ParseMonthKey(key)
	return err == nil
}

// FormatMonthKey formats a year and month as "YYYY-MM".
func FormatMonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// CurrentMonthKey returns the month key containing t.
func CurrentMonthKey(t time.Time) string {
	return FormatMonthKey(t.Year(), int(t.Month()))
}

// AddMonths shifts key by delta months, crossing year boundaries as needed.
func AddMonths(key string, delta int) (string, error) {
	y, m, err := ParseMonthKey(key)
	if err != nil {
		return "", err
	}
	d := time.Date(y, time.Month(m)+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return FormatMonthKey(d.Year(), int(d.Month())), nil
}

// PrevMonthKey returns the month before key.
func PrevMonthKey(key string) (string, error) {
	return AddMonths(key, -1)
}

// YearStartKey returns January of key's year.
func YearStartKey(key string) (string, error) {
	y, _, err := ParseMonthKey(key)
	if err != nil {
		return "", err
	}
	return FormatMonthKey(y, 1), nil
}

// MonthBounds returns the first and last instant of the month in UTC.
func MonthBounds(key string) (start, end time.Time, err error) {
	y, m, err := ParseMonthKey(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end, nil
}

// MonthKeysBetween returns every key from "from" through "to", inclusive,
// in chronological order. It returns an empty slice when from is after to.
func MonthKeysBetween(from, to string) ([]string, error) {
	fy, fm, err := ParseMonthKey(from)
	if err != nil {
		return nil, err
	}
	ty, tm, err := ParseMonthKey(to)
	if err != nil {
		return nil, err
	}

	n := (ty-fy)*12 + (tm - fm) + 1
	if n <= 0 {
		return []string{}, nil
	}

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		d := time.Date(fy, time.Month(fm+i), 1, 0, 0, 0, 0, time.UTC)
		out = append(out, FormatMonthKey(d.Year(), int(d.Month())))
	}
	return out, nil
}

// BuildMonthKeysBack returns count keys ending at key, oldest first.
func BuildMonthKeysBack(key string, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	start, err := AddMonths(key, -(count - 1))
	if err != nil {
		return nil, err
	}
	return MonthKeysBetween(start, key)
}
