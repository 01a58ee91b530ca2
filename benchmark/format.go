package benchmark

import (
	"fmt"
	"math"
	"time"
)

// FormatSeconds renders a duration given in seconds with the most readable
// unit and two decimals (whole nanoseconds below one microsecond).
//
// The sign of negative values is kept, a positive sign is never added.
func FormatSeconds(seconds float64) string {
	abs := math.Abs(seconds)
	switch {
	case abs >= 1:
		return fmt.Sprintf("%.2fs", seconds)
	case abs >= 1e-3:
		return fmt.Sprintf("%.2fms", seconds*1e3)
	case abs >= 1e-6:
		return fmt.Sprintf("%.2fμs", seconds*1e6)
	default:
		return fmt.Sprintf("%.0fns", seconds*1e9)
	}
}

// FormatDuration is FormatSeconds for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatSeconds(d.Seconds())
}

// FormatDiff renders a signed difference, prefixing "+" when it is positive.
func FormatDiff(d time.Duration) string {
	if d > 0 {
		return "+" + FormatDuration(d)
	}
	return FormatDuration(d)
}
