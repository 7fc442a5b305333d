package common

import "time"

// Freshness TTLs. Quotes are polled, so a snapshot older than two polling
// intervals means at least one refresh has been missed.
const (
	FreshnessQuoteOpen   = 2 * 30 * time.Second
	FreshnessQuoteClosed = 2 * 5 * time.Minute
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	return IsFreshAt(updated, ttl, time.Now())
}

// IsFreshAt is IsFresh evaluated against an explicit instant.
func IsFreshAt(updated time.Time, ttl time.Duration, now time.Time) bool {
	if updated.IsZero() {
		return false
	}
	return now.Sub(updated) < ttl
}
