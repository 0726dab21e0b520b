package services

import "time"

// All quiz timestamps live in East Africa Time (UTC+3, no DST).
var eat = time.FixedZone("EAT", 3*60*60)

func NowEAT() time.Time {
	return time.Now().In(eat)
}

// RemainingSeconds returns the seconds left on a timed attempt, nil when the
// session has no limit. The result is clamped to [0, limit]: it never goes
// negative on an expired attempt, and clock skew that makes elapsed negative
// yields the full limit instead of underflowing.
func RemainingSeconds(startedAt time.Time, timeLimitMinutes int, now time.Time) *int {
	if timeLimitMinutes <= 0 {
		return nil
	}
	limit := timeLimitMinutes * 60
	elapsed := int(now.Sub(startedAt).Seconds())
	remaining := limit - elapsed
	if remaining < 0 {
		remaining = 0
	}
	if remaining > limit {
		remaining = limit
	}
	return &remaining
}

// Expired reports whether a timed attempt has run out. A nil remaining
// (no limit) never expires.
func Expired(remaining *int) bool {
	return remaining != nil && *remaining <= 0
}
