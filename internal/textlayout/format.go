package textlayout

import (
	"fmt"
	"time"
)

// FormatCountdown renders the time remaining as display lines:
// "<days>D" over "HH:MM:SS" when at least a day is left, "H:MM:SS" when at
// least an hour is left, and "MM:SS" otherwise. Partial seconds round up.
func FormatCountdown(remaining time.Duration) []string {
	if remaining <= 0 {
		return []string{"00:00"}
	}
	total := int64((remaining + time.Second - 1) / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	switch {
	case days > 0:
		return []string{fmt.Sprintf("%dD", days), fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)}
	case hours > 0:
		return []string{fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)}
	default:
		return []string{fmt.Sprintf("%02d:%02d", minutes, seconds)}
	}
}
