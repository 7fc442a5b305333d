package common

import (
	"testing"
	"time"
)

func TestIsFreshAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		updated time.Time
		ttl     time.Duration
		want    bool
	}{
		{"zero time is never fresh", time.Time{}, time.Hour, false},
		{"within ttl", now.Add(-30 * time.Second), FreshnessQuoteOpen, true},
		{"at ttl boundary", now.Add(-FreshnessQuoteOpen), FreshnessQuoteOpen, false},
		{"past ttl", now.Add(-11 * time.Minute), FreshnessQuoteClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFreshAt(tt.updated, tt.ttl, now); got != tt.want {
				t.Errorf("IsFreshAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFresh_RecentTimestamp(t *testing.T) {
	if !IsFresh(time.Now(), time.Minute) {
		t.Error("expected a just-written timestamp to be fresh")
	}
}
