package workspace

import (
	"context"
	"time"

	"github.com/filmdesk/filmdesk-backend/internal/calendar"
	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/google"
)

// Events lists the locally stored calendar events.
func (w *Workspace) Events() []domain.CalendarEvent { return w.events.List() }

// EventsOn merges local events with the cached provider events on day. Provider events
// are never written to the local store.
func (w *Workspace) EventsOn(day time.Time) []domain.CalendarEvent {
	var remote []domain.CalendarEvent
	if p := w.calendarPoller(); p != nil {
		remote = p.Events()
	}
	return calendar.EventsOn(w.events.List(), remote, day)
}

func (w *Workspace) AddEvent(ctx context.Context, e domain.CalendarEvent) (domain.CalendarEvent, error) {
	e.Date = dateOnly(e.Date)
	normalize(domain.CalendarEventSchema, &e)
	return w.events.Create(ctx, e)
}

// UpdateEvent updates a local event, or patches the provider event when id carries the
// provider prefix.
func (w *Workspace) UpdateEvent(ctx context.Context, id string, apply func(*domain.CalendarEvent), fields ...string) (domain.CalendarEvent, error) {
	if !google.IsProviderEvent(id) {
		return w.events.Update(ctx, id, func(e *domain.CalendarEvent) {
			apply(e)
			e.Date = dateOnly(e.Date)
		}, fields...)
	}

	prov, poller := w.provider(), w.calendarPoller()
	if prov == nil || prov.Calendar == nil || poller == nil {
		return domain.CalendarEvent{}, ErrNotConnected
	}
	var ev domain.CalendarEvent
	found := false
	for _, e := range poller.Events() {
		if e.ID == id {
			ev, found = e, true
			break
		}
	}
	if !found {
		return domain.CalendarEvent{}, ErrNotFound
	}
	apply(&ev)
	ev.ID = id
	if err := prov.Calendar.UpdateEvent(ctx, ev); err != nil {
		return domain.CalendarEvent{}, err
	}
	return ev, nil
}

// DeleteEvent removes a local event, or the provider event when id carries the provider
// prefix.
func (w *Workspace) DeleteEvent(ctx context.Context, id string) error {
	if !google.IsProviderEvent(id) {
		return w.events.Remove(ctx, id)
	}
	prov := w.provider()
	if prov == nil || prov.Calendar == nil {
		return ErrNotConnected
	}
	return prov.Calendar.DeleteEvent(ctx, id)
}

// PublishEvent copies a local event to the provider calendar and returns the provider's
// copy. The local event is kept.
func (w *Workspace) PublishEvent(ctx context.Context, id string) (domain.CalendarEvent, error) {
	ev, ok := w.events.FindByID(id)
	if !ok {
		return domain.CalendarEvent{}, ErrNotFound
	}
	prov := w.provider()
	if prov == nil || prov.Calendar == nil {
		return domain.CalendarEvent{}, ErrNotConnected
	}
	return prov.Calendar.CreateEvent(ctx, ev)
}

// RefreshCalendar refetches provider events now.
func (w *Workspace) RefreshCalendar(ctx context.Context) error {
	p := w.calendarPoller()
	if p == nil {
		return ErrNotConnected
	}
	return p.Refresh(ctx)
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
