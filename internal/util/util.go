package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

func FormatFileSize(size float64, human bool) string {
	if size <= 0 {
		return "0"
	}
	units := []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}
	group := 0
	if human {
		group = int(math.Log10(size) / math.Log10(1024))
		if group < 0 {
			group = 0
		}
		if group >= len(units) {
			group = len(units) - 1
		}
	}
	return fmt.Sprintf("%.2f %s", size/math.Pow(1024, float64(group)), units[group])
}

// FormatNumber renders n with thousands separators.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatTimestamp renders a recording time, or "-" when the record has none.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05 -07:00")
}
