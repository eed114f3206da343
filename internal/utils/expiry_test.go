package utils

import (
	"testing"
	"time"

	"kestrel/internal/models"
)

func TestResolveExpiryStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	ptr := func(t time.Time) *time.Time { return &t }

	cases := []struct {
		name   string
		expiry *time.Time
		want   models.ExpiryStatus
	}{
		{"nil expiry never expires", nil, models.ExpiryStatusValid},
		{"one second past", ptr(now.Add(-time.Second)), models.ExpiryStatusExpired},
		{"one year past", ptr(now.AddDate(-1, 0, 0)), models.ExpiryStatusExpired},
		{"exactly now", ptr(now), models.ExpiryStatusExpiring},
		{"ten days out", ptr(now.AddDate(0, 0, 10)), models.ExpiryStatusExpiring},
		{"exactly thirty days out", ptr(now.AddDate(0, 0, 30)), models.ExpiryStatusExpiring},
		{"thirty days and one second out", ptr(now.AddDate(0, 0, 30).Add(time.Second)), models.ExpiryStatusValid},
		{"one year out", ptr(now.AddDate(1, 0, 0)), models.ExpiryStatusValid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveExpiryStatus(tc.expiry, now)
			if got != tc.want {
				t.Fatalf("ResolveExpiryStatus() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"same instant", now, 0},
		{"one second out rounds up", now.Add(time.Second), 1},
		{"exactly one day", now.Add(24 * time.Hour), 1},
		{"one day and a second", now.Add(24*time.Hour + time.Second), 2},
		{"exactly thirty days", now.Add(30 * 24 * time.Hour), 30},
		{"thirty days and a second", now.Add(30*24*time.Hour + time.Second), 31},
		{"one second past", now.Add(-time.Second), -1},
		{"two days past", now.Add(-48 * time.Hour), -2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DaysUntilExpiry(tc.expiry, now)
			if got != tc.want {
				t.Fatalf("DaysUntilExpiry() = %d, want %d", got, tc.want)
			}
		})
	}
}
