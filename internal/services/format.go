package services

import "fmt"

// FormatDuration renders a route duration for status lines: minutes
// below one hour, hours and minutes above.
func FormatDuration(seconds int) string {
	mins := (seconds + 30) / 60
	if mins < 0 {
		mins = 0
	}
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	h, m := mins/60, mins%60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}
