package calendar

import (
	"sort"
	"time"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

// SameDay reports whether a and b fall on the same calendar date. Event dates are
// date-only values, compared in UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// EventsOn returns the local and provider events on day. Local events come first; each
// group is ordered by time of day with all-day events leading.
func EventsOn(local, provider []domain.CalendarEvent, day time.Time) []domain.CalendarEvent {
	out := make([]domain.CalendarEvent, 0)
	out = append(out, onDay(local, day)...)

	seen := make(map[string]struct{}, len(out))
	for _, e := range out {
		seen[e.ID] = struct{}{}
	}
	for _, e := range onDay(provider, day) {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		out = append(out, e)
	}
	return out
}

func onDay(events []domain.CalendarEvent, day time.Time) []domain.CalendarEvent {
	var out []domain.CalendarEvent
	for _, e := range events {
		if SameDay(e.Date, day) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}
