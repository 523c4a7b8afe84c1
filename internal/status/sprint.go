package status

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysRemaining returns the whole days left until end, rounded up and
// never negative. It returns nil when the sprint has no end date.
func DaysRemaining(end *time.Time, now time.Time) *int {
	if end == nil || end.IsZero() {
		return nil
	}

	left := end.Sub(now)
	days := int(math.Ceil(float64(left) / float64(day)))
	days = max(days, 0)
	return &days
}
