package reconcile

import (
	"strings"
	"time"

	"mtleg-backend/lib/timezone"
)

// UndefinedDate is substituted for missing or unparseable source
// timestamps. Downstream consumers key off this literal, so it is part
// of the output contract.
const UndefinedDate = "undefined"

const outputDateLayout = "01/02/2006"

// FormatDate turns a source ISO timestamp ("2025-01-15T00:00:00Z")
// into the MM/DD/YYYY output form. Missing or malformed input degrades
// to UndefinedDate rather than failing the bill.
func FormatDate(timestamp string) string {
	t, ok := parseSourceDate(timestamp)
	if !ok {
		return UndefinedDate
	}
	return t.Format(outputDateLayout)
}

// parseSourceDate reads just the date part of a source timestamp. The
// time-of-day component is unreliable upstream, so only the calendar
// day participates in matching and formatting.
func parseSourceDate(timestamp string) (time.Time, bool) {
	if timestamp == "" {
		return time.Time{}, false
	}
	datePart, _, _ := strings.Cut(timestamp, "T")
	t, err := time.ParseInLocation("2006-01-02", datePart, timezone.Location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
