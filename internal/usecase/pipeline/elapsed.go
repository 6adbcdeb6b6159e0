package pipeline

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration as zero-padded HH:MM:SS, truncating
// fractional seconds. Hours are not wrapped at 24.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
