// Package util provides common utility functions used across d2assist.
package util

import (
	"fmt"
	"time"
)

// FormatClock renders a duration as "M:SS" for the overlay, e.g. 5:59.
// Negative durations clamp to 0:00 so the overlay never shows a
// negative remaining time.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
