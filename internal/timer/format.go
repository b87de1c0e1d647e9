package timer

import "fmt"

// FormatTime renders seconds as MM:SS. Negative input renders as 00:00.
func FormatTime(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
