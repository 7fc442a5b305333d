// Package market answers whether the reference exchange is trading.
package market

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the reference exchange's trading timezone.
const DefaultTimezone = "America/New_York"

// Regular session in exchange-local minutes since midnight.
const (
	openMinute  = 9*60 + 30
	closeMinute = 16 * 60
)

// Eastern returns the US Eastern trading location.
func Eastern() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		// tzdata is embedded, so this only fails on a corrupt build
		panic(fmt.Sprintf("market: load %s: %v", DefaultTimezone, err))
	}
	return loc
}

// LoadLocation resolves a configured timezone, defaulting to US Eastern.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return Eastern(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("market: load timezone %q: %w", name, err)
	}
	return loc, nil
}

// IsOpen reports whether t falls in the regular session: Monday to Friday,
// 09:30 inclusive to 16:00 exclusive, in loc.
func IsOpen(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	return minute >= openMinute && minute < closeMinute
}

// PollInterval picks the open or closed cadence for t.
func PollInterval(t time.Time, loc *time.Location, open, closed time.Duration) time.Duration {
	if IsOpen(t, loc) {
		return open
	}
	return closed
}
