package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the layout used for trip timestamps on export.
const TimeLayout = "2006-01-02 15:04:05"

// DateLayout is the layout used for maintenance dates on export.
const DateLayout = "2006-01-02"

var timeLayouts = []string{
	TimeLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04", DateLayout,
	"2006/01/02 15:04:05", "2006/01/02", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

// ParseTime parses s against the accepted timestamp layouts and returns the
// instant in UTC. Blank or unparseable input reports ok=false; it never
// yields the zero time as a valid value.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || isNullToken(s) {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseFloat coerces s to a float. Blank, null-like and non-numeric strings
// yield NaN.
func ParseFloat(s string) float64 {
	raw := strings.TrimSpace(s)
	if raw == "" || isNullToken(raw) {
		return math.NaN()
	}
	raw = strings.ReplaceAll(raw, "\u00A0", "")
	raw = strings.ReplaceAll(raw, " ", "")
	// Treat a lone comma as the decimal separator.
	if strings.Count(raw, ",") == 1 && !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// FormatFloat renders f so that ParseFloat(FormatFloat(f)) == f. NaN becomes "".
func FormatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NormalizeCategory lowercases and trims a categorical value.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "nan", "nat", "null", "none", "n/a", "na":
		return true
	}
	return false
}
