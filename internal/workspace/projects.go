package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
)

func (w *Workspace) Projects() []domain.Project { return w.projects.List() }

func (w *Workspace) Project(id string) (domain.Project, bool) { return w.projects.FindByID(id) }

// CreateProject stores p and opens an empty collection for it in every project-scoped domain.
func (w *Workspace) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	now := w.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	normalize(domain.ProjectSchema, &p)

	created, err := w.projects.Create(ctx, p)
	if err != nil {
		return created, err
	}
	for _, s := range w.dependent {
		s.SeedProject(created.ID)
	}
	return created, nil
}

// UpdateProject applies apply and always refreshes UpdatedAt.
func (w *Workspace) UpdateProject(ctx context.Context, id string, apply func(*domain.Project), fields ...string) (domain.Project, error) {
	now := w.now()
	if len(fields) > 0 && !slices.Contains(fields, "updated_at") {
		fields = append(fields, "updated_at")
	}
	return w.projects.Update(ctx, id, func(p *domain.Project) {
		apply(p)
		p.UpdatedAt = now
	}, fields...)
}

// RemoveProject deletes the project, then its records in every dependent domain. A
// failing domain does not stop the others; all failures are returned joined.
func (w *Workspace) RemoveProject(ctx context.Context, id string) error {
	if err := w.projects.Remove(ctx, id); err != nil {
		return err
	}

	log := logging.New(ctx, "workspace")
	var errs []error
	for _, s := range w.dependent {
		if err := s.DropProject(ctx, id); err != nil {
			log.LogErrorf("cascade", "project=%s domain=%s error=%v", id, s.Domain(), err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Domain(), err))
		}
	}
	return errors.Join(errs...)
}

// HasProjectEntry reports whether domain holds an entry for projectID.
func (w *Workspace) HasProjectEntry(domainKey, projectID string) bool {
	for _, s := range w.dependent {
		if s.Domain() != domainKey {
			continue
		}
		if h, ok := s.(interface{ HasProject(string) bool }); ok {
			return h.HasProject(projectID)
		}
	}
	return false
}
