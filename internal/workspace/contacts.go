package workspace

import (
	"context"
	"strings"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
)

func (w *Workspace) Collaborators(projectID string) []domain.Collaborator {
	return w.collaborators.ListByProject(projectID)
}

// AddCollaborator stores c under projectID and records it in the contact registry.
func (w *Workspace) AddCollaborator(ctx context.Context, projectID string, c domain.Collaborator) (domain.Collaborator, error) {
	c.ProjectID = projectID
	normalize(domain.CollaboratorSchema, &c)
	created, err := w.collaborators.Create(ctx, c)
	if err != nil {
		return created, err
	}
	if _, err := w.UpsertContact(ctx, domain.Contact{Profile: created.Profile}); err != nil {
		logging.New(ctx, "workspace").LogErrorf("contact-sync", "collaborator=%s error=%v", created.ID, err)
	}
	return created, nil
}

func (w *Workspace) UpdateCollaborator(ctx context.Context, id string, apply func(*domain.Collaborator), fields ...string) (domain.Collaborator, error) {
	return w.collaborators.Update(ctx, id, apply, fields...)
}

func (w *Workspace) RemoveCollaborator(ctx context.Context, id string) error {
	return w.collaborators.Remove(ctx, id)
}

func (w *Workspace) Contacts() []domain.Contact { return w.contacts.List() }

// UpsertContact merges c into the registry: a contact with the same e-mail, or failing
// that the same name, is overwritten with every field of c.
func (w *Workspace) UpsertContact(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	normalize(domain.ContactSchema, &c)
	existing, ok := w.contacts.Find(func(r *domain.Contact) bool { return domain.SameContact(&r.Profile, &c.Profile) })
	if !ok {
		return w.contacts.Create(ctx, c)
	}
	return w.contacts.Update(ctx, existing.ID, func(r *domain.Contact) { r.Profile = c.Profile })
}

// UpdateContactByEmail applies apply to the contact with email.
func (w *Workspace) UpdateContactByEmail(ctx context.Context, email string, apply func(*domain.Contact)) (domain.Contact, error) {
	email = strings.TrimSpace(email)
	existing, ok := w.contacts.Find(func(r *domain.Contact) bool {
		return email != "" && strings.EqualFold(strings.TrimSpace(r.Email), email)
	})
	if !ok {
		return domain.Contact{}, ErrNotFound
	}
	return w.contacts.Update(ctx, existing.ID, apply)
}

func (w *Workspace) UpdateContact(ctx context.Context, id string, apply func(*domain.Contact), fields ...string) (domain.Contact, error) {
	return w.contacts.Update(ctx, id, apply, fields...)
}

func (w *Workspace) RemoveContact(ctx context.Context, id string) error {
	return w.contacts.Remove(ctx, id)
}

// FindContactByName matches the trimmed name case-insensitively.
func (w *Workspace) FindContactByName(name string) (domain.Contact, bool) {
	if strings.TrimSpace(name) == "" {
		return domain.Contact{}, false
	}
	return w.contacts.Find(func(r *domain.Contact) bool { return domain.SameText(r.Name, name) })
}

func (w *Workspace) SearchContacts(query string) []domain.Contact {
	return domain.MatchContacts(w.contacts.List(), query)
}
