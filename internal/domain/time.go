package domain

import "time"

// StoredPrecision is the finest time resolution every store keeps. BSON
// dates hold milliseconds; Postgres timestamptz holds microseconds.
const StoredPrecision = time.Millisecond

// StoredTime returns t in UTC truncated to StoredPrecision, so a timestamp
// returned by a write equals the one read back later.
func StoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(StoredPrecision)
}

// Now returns the current time as a StoredTime.
func Now() time.Time {
	return StoredTime(time.Now())
}
