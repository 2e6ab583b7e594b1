package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/festivals"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
)

func (w *Workspace) Festivals() []domain.Festival { return w.festivals.List() }

func (w *Workspace) FestivalsByRegion(r domain.Region) []domain.Festival {
	return festivals.ByRegion(w.festivals.List(), r)
}

func (w *Workspace) FestivalsByYear(year int) []domain.Festival {
	return festivals.ByYear(w.festivals.List(), year)
}

func (w *Workspace) AddFestival(ctx context.Context, f domain.Festival) (domain.Festival, error) {
	if f.Year == 0 && !f.StartDate.IsZero() {
		f.Year = f.StartDate.Year()
	}
	normalize(domain.FestivalSchema, &f)
	return w.festivals.Create(ctx, f)
}

func (w *Workspace) UpdateFestival(ctx context.Context, id string, apply func(*domain.Festival), fields ...string) (domain.Festival, error) {
	return w.festivals.Update(ctx, id, apply, fields...)
}

func (w *Workspace) RemoveFestival(ctx context.Context, id string) error {
	return w.festivals.Remove(ctx, id)
}

// RolloverFestivals replaces expired editions with next year's and makes sure the
// current and next year are populated. It returns the applied plan.
func (w *Workspace) RolloverFestivals(ctx context.Context) (festivals.Plan, error) {
	if w.UserID() == "" {
		return festivals.Plan{}, ErrNoSession
	}
	plan := festivals.PlanRollover(w.festivals.List(), w.now())
	if plan.Empty() {
		return plan, nil
	}

	var errs []error
	for _, id := range plan.Remove {
		if err := w.festivals.Remove(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", id, err))
		}
	}
	for _, f := range plan.Add {
		if _, err := w.festivals.Create(ctx, f); err != nil {
			errs = append(errs, fmt.Errorf("add %s: %w", f.ID, err))
		}
	}
	logging.New(ctx, "festivals").LogInfof("rollover", "added=%d removed=%d failed=%d", len(plan.Add), len(plan.Remove), len(errs))
	return plan, errors.Join(errs...)
}
