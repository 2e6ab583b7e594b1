package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
)

// Notifications derives the task notifications for the session, newest first.
func (w *Workspace) Notifications() []domain.Notification {
	titles := make(map[string]string)
	for _, p := range w.projects.List() {
		titles[p.ID] = p.Title
	}
	read := make(map[string]bool)
	for _, r := range w.readNotes.List() {
		read[r.ID] = true
	}
	return domain.BuildNotifications(w.tasks.List(), titles, read, w.now())
}

func (w *Workspace) UnreadNotifications() int {
	n := 0
	for _, x := range w.Notifications() {
		if !x.Read {
			n++
		}
	}
	return n
}

// MarkNotificationsRead records ids as read. Ids already read keep their first timestamp.
func (w *Workspace) MarkNotificationsRead(ctx context.Context, ids ...string) error {
	now := w.now()
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := w.readNotes.FindByID(id); ok {
			continue
		}
		if _, err := w.readNotes.Create(ctx, domain.ReadNotification{ID: id, ReadAt: now}); err != nil {
			return err
		}
	}
	return nil
}

// MarkAllNotificationsRead marks every current notification read and returns how many
// were unread.
func (w *Workspace) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	var ids []string
	for _, n := range w.Notifications() {
		if !n.Read {
			ids = append(ids, n.ID)
		}
	}
	return len(ids), w.MarkNotificationsRead(ctx, ids...)
}

func (w *Workspace) notification(id string) (domain.Notification, bool) {
	for _, n := range w.Notifications() {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Notification{}, false
}

// CompleteTaskFromNotification completes the notification's task and marks it read.
func (w *Workspace) CompleteTaskFromNotification(ctx context.Context, id string) (domain.Task, error) {
	n, ok := w.notification(id)
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	t, err := w.UpdateTask(ctx, n.TaskID, func(t *domain.Task) { t.Status = domain.TaskCompleted }, "status")
	if err != nil {
		return t, err
	}
	return t, w.MarkNotificationsRead(ctx, id)
}

// SendTaskReminder mails every collaborator assigned to the notification's task that has
// an e-mail address and returns the recipients reached.
func (w *Workspace) SendTaskReminder(ctx context.Context, id string) ([]string, error) {
	n, ok := w.notification(id)
	if !ok {
		return nil, ErrNotFound
	}
	p := w.provider()
	if p == nil || p.Mail == nil {
		return nil, ErrNotConnected
	}
	task, ok := w.tasks.FindByID(n.TaskID)
	if !ok {
		return nil, ErrNotFound
	}
	subject := fmt.Sprintf("[Reminder] %s: %s", n.ProjectTitle, n.TaskDescription)
	body := fmt.Sprintf("Hello,\n\n%s.\nProject: %s\nDue: %s\n", n.Message, n.ProjectTitle, task.EndDate.Format("2006-01-02"))

	log := logging.New(ctx, "workspace")
	var sent []string
	for _, c := range w.collaborators.ListByProject(task.ProjectID) {
		email := strings.TrimSpace(c.Email)
		if email == "" || !task.AssignedTo.Contains(c.Name) {
			continue
		}
		if err := p.Mail.SendMessage(ctx, email, subject, body); err != nil {
			log.LogErrorf("task-reminder", "task=%s to=%s error=%v", task.ID, email, err)
			continue
		}
		sent = append(sent, email)
	}
	return sent, nil
}
