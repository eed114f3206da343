package utils

import (
	"time"

	"kestrel/internal/models"
)

// ExpiringWindowDays is how far out a credential counts as "expiring".
const ExpiringWindowDays = 30

const day = 24 * time.Hour

// DaysUntilExpiry returns the number of whole or partial days from now
// until expiry, rounding up. An expiry 30 days and one second away is 31
// days out; exactly 30 days away is 30. Negative when already past.
func DaysUntilExpiry(expiry, now time.Time) int {
	d := expiry.Sub(now)
	if d < 0 {
		return -int((-d + day - time.Nanosecond) / day)
	}
	return int((d + day - time.Nanosecond) / day)
}

// ResolveExpiryStatus derives a credential's lifecycle status from its
// expiry date. This is the single source of truth: it runs when a row is
// created (to seed the stored default) and again on every read (overriding
// whatever was stored). A nil expiry never expires.
func ResolveExpiryStatus(expiry *time.Time, now time.Time) models.ExpiryStatus {
	if expiry == nil {
		return models.ExpiryStatusValid
	}
	if expiry.Before(now) {
		return models.ExpiryStatusExpired
	}
	if DaysUntilExpiry(*expiry, now) <= ExpiringWindowDays {
		return models.ExpiryStatusExpiring
	}
	return models.ExpiryStatusValid
}
