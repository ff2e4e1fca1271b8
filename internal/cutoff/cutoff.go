// Package cutoff is the single source of truth for the daily opt-in window.
// Every mutating call re-evaluates the gate against wall-clock time; nothing
// closes the window on a schedule.
package cutoff

import "time"

// Hour is the local hour after which meal preferences for the next service
// date can no longer change (8:00 PM).
const Hour = 20

// PastCutoff reports whether the opt-in window has closed for the day of
// now. The boundary is inclusive: exactly 20:00:00 is past cutoff.
func PastCutoff(now time.Time) bool {
	return now.Hour() >= Hour
}

// TimeRemaining returns the duration until today's cutoff. At or after the
// cutoff it returns zero rather than rolling over to the next day.
func TimeRemaining(now time.Time) time.Duration {
	deadline := time.Date(now.Year(), now.Month(), now.Day(), Hour, 0, 0, 0, now.Location())
	if !now.Before(deadline) {
		return 0
	}
	return deadline.Sub(now)
}
