package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

// EventIDPrefix marks calendar events that live in the provider, not in the local store.
const EventIDPrefix = "google_"

const defaultEventLength = time.Hour

func IsProviderEvent(id string) bool { return strings.HasPrefix(id, EventIDPrefix) }

// ProviderEventID strips EventIDPrefix.
func ProviderEventID(id string) string { return strings.TrimPrefix(id, EventIDPrefix) }

// Calendar reads and writes the signed-in user's primary Google calendar.
type Calendar struct {
	svc        *calendar.Service
	calendarID string
	loc        *time.Location
}

func NewCalendar(ctx context.Context, opts ...option.ClientOption) (*Calendar, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar.NewService: %w", err)
	}
	return &Calendar{svc: svc, calendarID: "primary", loc: time.UTC}, nil
}

// ListEvents returns single events starting within [from, to), mapped to local records.
func (c *Calendar) ListEvents(ctx context.Context, from, to time.Time) ([]domain.CalendarEvent, error) {
	var out []domain.CalendarEvent
	call := c.svc.Events.List(c.calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339))

	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, ev := range page.Items {
			if ev.Status == "cancelled" {
				continue
			}
			out = append(out, fromGoogle(ev))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("calendar list events: %w", err)
	}
	return out, nil
}

func (c *Calendar) CreateEvent(ctx context.Context, e domain.CalendarEvent) (domain.CalendarEvent, error) {
	created, err := c.svc.Events.Insert(c.calendarID, c.toGoogle(e)).Context(ctx).Do()
	if err != nil {
		return domain.CalendarEvent{}, fmt.Errorf("calendar create event: %w", err)
	}
	return fromGoogle(created), nil
}

// UpdateEvent patches title and timing of the provider event e.ID (prefixed or not).
func (c *Calendar) UpdateEvent(ctx context.Context, e domain.CalendarEvent) error {
	if _, err := c.svc.Events.Patch(c.calendarID, ProviderEventID(e.ID), c.toGoogle(e)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar update event: %w", err)
	}
	return nil
}

func (c *Calendar) DeleteEvent(ctx context.Context, id string) error {
	if err := c.svc.Events.Delete(c.calendarID, ProviderEventID(id)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar delete event: %w", err)
	}
	return nil
}

func (c *Calendar) toGoogle(e domain.CalendarEvent) *calendar.Event {
	ev := &calendar.Event{Summary: e.Title}
	day := e.Date.Format("2006-01-02")
	if e.Time == "" {
		ev.Start = &calendar.EventDateTime{Date: day}
		ev.End = &calendar.EventDateTime{Date: e.Date.AddDate(0, 0, 1).Format("2006-01-02")}
		return ev
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", day+" "+e.Time, c.loc)
	if err != nil {
		start = e.Date
	}
	ev.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: c.loc.String()}
	ev.End = &calendar.EventDateTime{DateTime: start.Add(defaultEventLength).Format(time.RFC3339), TimeZone: c.loc.String()}
	return ev
}

func fromGoogle(ev *calendar.Event) domain.CalendarEvent {
	out := domain.CalendarEvent{
		ID:    EventIDPrefix + ev.Id,
		Title: ev.Summary,
		Type:  domain.EventOther,
	}
	if out.Title == "" {
		out.Title = "Untitled Event"
	}
	if ev.Start == nil {
		return out
	}
	switch {
	case ev.Start.DateTime != "":
		if t, err := time.Parse(time.RFC3339, ev.Start.DateTime); err == nil {
			out.Date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			out.Time = t.Format("15:04")
		}
	case ev.Start.Date != "":
		if t, err := time.Parse("2006-01-02", ev.Start.Date); err == nil {
			out.Date = t
		}
	}
	return out
}
