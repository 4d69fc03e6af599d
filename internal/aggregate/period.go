package aggregate

import (
	"time"

	"github.com/claude/amped/internal/health"
)

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// windowBounds returns the bounds of a reporting window ending at now. Day is
// "start of today → now". Month and year are trailing rolling windows of 31
// and 365 calendar days including today, anchored at the start of the
// window's first day. The rolling anchor (rather than a calendar boundary)
// matches the reference methodology and must not be "simplified".
func windowBounds(p health.Period, now time.Time) (start, end time.Time) {
	end = now
	start = startOfDay(now).AddDate(0, 0, -(p.Days() - 1))
	return start, end
}
