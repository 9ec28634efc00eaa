// Package workday counts business days. Saturday and Sunday are never
// working days; a Calendar may additionally carry explicit holidays.
package workday

import "time"

const DateLayout = "2006-01-02"

type Calendar struct {
	holidays map[string]struct{}
}

// NewCalendar builds a calendar with the given holiday dates.
// Only the date part of each value is used.
func NewCalendar(holidays ...time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[h.Format(DateLayout)] = struct{}{}
	}
	return c
}

// Default has weekends only.
var Default = NewCalendar()

func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (c *Calendar) IsWorkingDay(d time.Time) bool {
	if IsWeekend(d) {
		return false
	}
	if c == nil {
		return true
	}
	_, holiday := c.holidays[d.Format(DateLayout)]
	return !holiday
}

// CountBetween returns the working days in [start, end], both inclusive.
// It returns 0 when start is after end.
func (c *Calendar) CountBetween(start, end time.Time) int {
	start = truncate(start)
	end = truncate(end)
	if start.After(end) {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}

func Count(start, end time.Time) int {
	return Default.CountBetween(start, end)
}

// Parse reads a YYYY-MM-DD date as midnight UTC.
func Parse(v string) (time.Time, error) {
	return time.Parse(DateLayout, v)
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
