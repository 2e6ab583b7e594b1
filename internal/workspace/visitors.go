package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
)

func (w *Workspace) Visitors(projectID string) []domain.Visitor {
	return w.visitors.ListByProject(projectID)
}

// InviteVisitor creates a pending invitation whose id is the token handed to the guest,
// and e-mails it when a mail provider is connected.
func (w *Workspace) InviteVisitor(ctx context.Context, projectID string, v domain.Visitor) (domain.Visitor, error) {
	v.ID = uuid.NewString()
	v.ProjectID = projectID
	v.Status = domain.VisitorPending
	v.InvitedAt = w.now()
	normalize(domain.VisitorSchema, &v)

	created, err := w.visitors.Create(ctx, v)
	if err != nil {
		return created, err
	}

	if p := w.provider(); p != nil && p.Mail != nil && strings.TrimSpace(created.Email) != "" {
		subject, body := w.invitationMessage(created)
		if err := p.Mail.SendMessage(ctx, created.Email, subject, body); err != nil {
			logging.New(ctx, "workspace").LogErrorf("invite-mail", "visitor=%s error=%v", created.ID, err)
		}
	}
	return created, nil
}

func (w *Workspace) invitationMessage(v domain.Visitor) (string, string) {
	title := "a project"
	if p, ok := w.projects.FindByID(v.ProjectID); ok && p.Title != "" {
		title = p.Title
	}
	name := v.Name
	if name == "" {
		name = v.Email
	}
	subject := fmt.Sprintf("Invitation to %s", title)
	body := fmt.Sprintf("Hello %s,\n\nYou have been invited to follow %s.\nYour invitation code is: %s\n", name, title, v.ID)
	return subject, body
}

// UpdateVisitor applies apply; the status may only move forward.
func (w *Workspace) UpdateVisitor(ctx context.Context, id string, apply func(*domain.Visitor), fields ...string) (domain.Visitor, error) {
	cur, ok := w.visitors.FindByID(id)
	if ok {
		next := cur
		apply(&next)
		if next.Status.Rank() < cur.Status.Rank() {
			return cur, fmt.Errorf("%s -> %s: %w", cur.Status, next.Status, ErrInvalidTransition)
		}
	}
	return w.visitors.Update(ctx, id, func(v *domain.Visitor) {
		apply(v)
		v.AllowedTabs = v.AllowedTabs.Dedup()
		if v.AllowedTabs == nil {
			v.AllowedTabs = domain.StringList{}
		}
	}, fields...)
}

func (w *Workspace) RemoveVisitor(ctx context.Context, id string) error {
	return w.visitors.Remove(ctx, id)
}

// Invitation is a visitor record together with the user who issued it.
type Invitation struct {
	Owner   string         `json:"owner"`
	Visitor domain.Visitor `json:"visitor"`
}

// LookupInvitation reads token straight from the authoritative backend, so it resolves
// invitations issued by any user.
func (w *Workspace) LookupInvitation(ctx context.Context, token string) (Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Invitation{}, ErrNotFound
	}
	owner, v, err := w.visitors.Backend().Locate(ctx, token)
	if err != nil {
		return Invitation{}, err
	}
	return Invitation{Owner: owner, Visitor: *v}, nil
}

// AcceptInvitation moves a pending invitation to accepted.
func (w *Workspace) AcceptInvitation(ctx context.Context, token string) (Invitation, error) {
	return w.advanceVisitor(ctx, token, domain.VisitorAccepted)
}

// ActivateVisitor moves an accepted invitation to active.
func (w *Workspace) ActivateVisitor(ctx context.Context, token string) (Invitation, error) {
	return w.advanceVisitor(ctx, token, domain.VisitorActive)
}

func (w *Workspace) advanceVisitor(ctx context.Context, token string, to domain.VisitorStatus) (Invitation, error) {
	inv, err := w.LookupInvitation(ctx, token)
	if err != nil {
		return inv, err
	}
	from := inv.Visitor.Status
	if from.Rank() != to.Rank()-1 {
		return inv, fmt.Errorf("%s -> %s: %w", from, to, ErrInvalidTransition)
	}

	inv.Visitor.Status = to
	if inv.Owner == w.UserID() {
		_, err := w.visitors.Update(ctx, inv.Visitor.ID, func(v *domain.Visitor) { v.Status = to }, "status")
		if err == nil || !errors.Is(err, ErrNoSession) {
			return inv, err
		}
	}
	if err := w.visitors.Backend().Update(ctx, inv.Owner, inv.Visitor.ID, &inv.Visitor, []string{"status"}); err != nil {
		return inv, err
	}
	logging.New(ctx, "workspace").LogInfof("visitor", "token=%s owner=%s status=%s", token, inv.Owner, to)
	return inv, nil
}
