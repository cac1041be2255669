package finder

import (
	"strings"

	"wedding-rsvp/internal/models"
)

// Summarize joins guest names for display: "A", "A and B", "A, B, and C".
func Summarize(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	last := len(names) - 1
	return strings.Join(names[:last], ", ") + ", and " + names[last]
}

// SummarizeRSVP summarizes the guests on one record.
func SummarizeRSVP(r models.RSVP) string {
	return Summarize(r.GuestNames())
}
