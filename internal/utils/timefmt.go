package utils

import (
	"time"
)

const humanTimestampLayout = "2006-01-02 15:04"

// FormatTimestamp returns the provided time formatted for human-readable
// output using the local time zone, with date and minutes precision.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(humanTimestampLayout)
}

// FormatTimestampISO returns the provided time in ISO-8601 form for machine
// formats. The zero time renders as an empty string.
func FormatTimestampISO(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(time.RFC3339)
}
