package market

import (
	"testing"
	"time"
)

func TestIsOpen(t *testing.T) {
	ny := Eastern()

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"saturday midday", time.Date(2026, 3, 7, 12, 0, 0, 0, ny), false},
		{"sunday midday", time.Date(2026, 3, 8, 12, 0, 0, 0, ny), false},
		{"tuesday open bell", time.Date(2026, 3, 10, 9, 30, 0, 0, ny), true},
		{"tuesday before open", time.Date(2026, 3, 10, 9, 29, 59, 0, ny), false},
		{"tuesday last second", time.Date(2026, 3, 10, 15, 59, 59, 0, ny), true},
		{"tuesday close bell", time.Date(2026, 3, 10, 16, 0, 0, 0, ny), false},
		{"friday afternoon", time.Date(2026, 3, 13, 14, 0, 0, 0, ny), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOpen(tt.at, ny); got != tt.want {
				t.Errorf("IsOpen(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestIsOpen_ConvertsFromUTC(t *testing.T) {
	ny := Eastern()
	// 14:30 UTC on a winter Tuesday is 09:30 EST
	winter := time.Date(2026, 1, 13, 14, 30, 0, 0, time.UTC)
	if !IsOpen(winter, ny) {
		t.Error("expected 14:30 UTC in January to be open")
	}
	// 13:30 UTC on a summer Tuesday is 09:30 EDT
	summer := time.Date(2026, 7, 14, 13, 30, 0, 0, time.UTC)
	if !IsOpen(summer, ny) {
		t.Error("expected 13:30 UTC in July to be open")
	}
	// 02:00 UTC Saturday is still Friday evening in New York
	if IsOpen(time.Date(2026, 3, 14, 2, 0, 0, 0, time.UTC), ny) {
		t.Error("expected Friday evening to be closed")
	}
}

func TestPollInterval(t *testing.T) {
	ny := Eastern()
	open := time.Date(2026, 3, 10, 10, 0, 0, 0, ny)
	closed := time.Date(2026, 3, 7, 10, 0, 0, 0, ny)

	if got := PollInterval(open, ny, 30*time.Second, 5*time.Minute); got != 30*time.Second {
		t.Errorf("open interval = %v, want 30s", got)
	}
	if got := PollInterval(closed, ny, 30*time.Second, 5*time.Minute); got != 5*time.Minute {
		t.Errorf("closed interval = %v, want 5m", got)
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil || loc.String() != DefaultTimezone {
		t.Errorf("LoadLocation(\"\") = %v, %v", loc, err)
	}
	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
