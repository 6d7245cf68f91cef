package setlist

import (
	"fmt"
	"math"
	"strconv"
)

// FormatMinutes renders an approximate duration, e.g. "~45m", "~2h" or "~1h 30m".
func FormatMinutes(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("~%dm", int(math.Round(minutes)))
	}
	h := int(math.Floor(minutes / 60))
	m := math.Mod(minutes, 60)
	if m > 0 {
		return fmt.Sprintf("~%dh %sm", h, strconv.FormatFloat(m, 'f', -1, 64))
	}
	return fmt.Sprintf("~%dh", h)
}
