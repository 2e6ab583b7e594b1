package festivals

import (
	"time"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// IsExpired reports whether the festival has ended and both deadlines have passed.
func IsExpired(f *domain.Festival, now time.Time) bool {
	d := today(now)
	return f.EndDate.Before(d) && f.FilmSubmissionDeadline.Before(d) && f.ProducersHubDeadline.Before(d)
}

// Plan is the set of changes a rollover applies.
type Plan struct {
	Add    []domain.Festival
	Remove []string
}

func (p Plan) Empty() bool { return len(p.Add) == 0 && len(p.Remove) == 0 }

// PlanRollover schedules next editions for expired festivals, drops expired editions
// from past years and adds the full template set for the current and next year when a
// year has no festival at all.
func PlanRollover(current []domain.Festival, now time.Time) Plan {
	var plan Plan
	year := now.Year()

	have := make(map[string]struct{}, len(current))
	for _, f := range current {
		have[f.ID] = struct{}{}
	}
	add := func(f domain.Festival) {
		if _, ok := have[f.ID]; ok {
			return
		}
		have[f.ID] = struct{}{}
		plan.Add = append(plan.Add, f)
	}

	years := make(map[int]struct{})
	for i := range current {
		f := &current[i]
		expired := IsExpired(f, now)
		if expired {
			if tid, ok := TemplateID(f.ID); ok {
				if t, ok := Lookup(tid); ok {
					add(t.Instance(f.Year + 1))
				}
			}
		}
		if expired && f.Year < year {
			plan.Remove = append(plan.Remove, f.ID)
			continue
		}
		years[f.Year] = struct{}{}
	}
	for _, f := range plan.Add {
		years[f.Year] = struct{}{}
	}

	for _, y := range []int{year, year + 1} {
		if _, ok := years[y]; ok {
			continue
		}
		for _, t := range Templates {
			add(t.Instance(y))
		}
	}
	return plan
}

func ByRegion(fs []domain.Festival, r domain.Region) []domain.Festival {
	out := make([]domain.Festival, 0, len(fs))
	for _, f := range fs {
		if f.Region == r {
			out = append(out, f)
		}
	}
	return out
}

func ByYear(fs []domain.Festival, year int) []domain.Festival {
	out := make([]domain.Festival, 0, len(fs))
	for _, f := range fs {
		if f.Year == year {
			out = append(out, f)
		}
	}
	return out
}
