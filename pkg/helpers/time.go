package helpers

import "time"

const DateLayout = "2006-01-02"

// FormatDate renders a calendar date, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatTimestamp renders t in UTC as RFC3339.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
