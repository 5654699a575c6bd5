// Package dates provides business-day calendar arithmetic.
// Business days are Monday through Friday; no holiday calendar is applied.
package dates

import "time"

// IsBusinessDay returns true if t falls on a weekday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// AddBusinessDays returns the date n business days after start.
// Weekends are skipped entirely. n <= 0 returns start unchanged.
func AddBusinessDays(start time.Time, n int) time.Time {
	current := start
	added := 0

	for added < n {
		current = current.AddDate(0, 0, 1)
		if IsBusinessDay(current) {
			added++
		}
	}

	return current
}

// Truncate strips the time-of-day component, keeping the location.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
