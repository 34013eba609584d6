package utils

import "time"

// DefaultTimestampLayout formats timestamps with second resolution.
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp returns the provided time formatted using the local time
// zone and the supplied layout. An empty layout falls back to the default,
// and the zero time renders as an empty string.
func FormatTimestamp(value time.Time, layout string) string {
	if value.IsZero() {
		return EmptyString
	}
	if layout == EmptyString {
		layout = DefaultTimestampLayout
	}
	return value.In(time.Local).Format(layout)
}
