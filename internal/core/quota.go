package core

import "time"

const dateKeyLayout = "2006-01-02"

// DailyQuota counts messages generated per UTC day. It resets lazily: Roll
// compares the wall-clock date key and zeroes the count on change.
type DailyQuota struct {
	Count   int
	DateKey string
}

// DateKey returns the UTC calendar day of t.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// Roll resets the counter when the date key has changed. Reports whether a
// reset happened.
func (q *DailyQuota) Roll(now time.Time) bool {
	key := DateKey(now)
	if q.DateKey == key {
		return false
	}
	q.DateKey = key
	q.Count = 0
	return true
}

func (q *DailyQuota) Exhausted(cap int) bool {
	return cap > 0 && q.Count >= cap
}

func (q *DailyQuota) Inc() { q.Count++ }

// NextUTCMidnight returns the start of the next UTC day after now. A quota
// pause arms its wake-up timer at this instant.
func NextUTCMidnight(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}
