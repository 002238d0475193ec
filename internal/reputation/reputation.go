// Package reputation computes the score change a farmer earns when they
// create a community post. All comparisons use calendar-day granularity in
// the caller's local time; time-of-day is discarded.
package reputation

import (
	"math"
	"time"
)

// PostReward is granted for the first qualifying post of a calendar day.
const PostReward = 2

// Accrue returns the score delta for a post created at now, given the
// instant of the user's previous qualifying post (nil if none).
//
//   - First-ever post: +PostReward.
//   - Another post on the same calendar day: 0.
//   - Post after a gap: +PostReward minus one point per fully missed day
//     (the days strictly between the last post and today).
//
// The delta can be negative after a long gap. Callers always reset the
// last-post marker to now regardless of the delta.
func Accrue(lastPost *time.Time, now time.Time) int {
	if lastPost == nil {
		return PostReward
	}

	gap := daysBetween(*lastPost, now)
	if gap <= 0 {
		// Already posted today, no repeat farming.
		return 0
	}

	missed := gap - 1
	delta := PostReward
	if missed > 0 {
		delta -= missed
	}
	return delta
}

// daysBetween counts calendar-day boundaries crossed between from and to,
// evaluated in to's location.
func daysBetween(from, to time.Time) int {
	f := startOfDay(from.In(to.Location()))
	t := startOfDay(to)
	return int(math.Round(t.Sub(f).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
