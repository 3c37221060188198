package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// noCapacityRatio is the sentinel written for sections with zero total seats.
const noCapacityRatio = -1

// FormatRatio renders a normalized ratio with the shortest decimal that
// round-trips. Whole ratios keep one decimal place ("1.0", "0.0") so the
// column reads as a float; the sentinel stays "-1".
func FormatRatio(ratio float64) string {
	s := strconv.FormatFloat(ratio, 'f', -1, 64)
	if ratio != noCapacityRatio && !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// FormatCount renders an integer with thousands separators for log lines.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatBytes renders a byte size for log lines.
func FormatBytes(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d B", n)
	}
	return humanize.Bytes(uint64(n))
}

func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}
