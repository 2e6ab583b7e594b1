package domain

import (
	"fmt"
	"sort"
	"time"
)

type NotificationType string

const (
	NotifyTaskOverdue      NotificationType = "task-overdue"
	NotifyTaskDueSoon      NotificationType = "task-due-soon"
	NotifyTaskStartingSoon NotificationType = "task-starting-soon"
)

type NotificationPriority string

const (
	PriorityHigh   NotificationPriority = "high"
	PriorityMedium NotificationPriority = "medium"
	PriorityLow    NotificationPriority = "low"
)

// Windows, in days, for the due-soon and starting-soon rules.
const (
	DueSoonDays      = 3
	StartingSoonDays = 2
)

// Notification is derived from a task on every read; only its read state is stored.
type Notification struct {
	ID              string               `json:"id"`
	Type            NotificationType     `json:"type"`
	Title           string               `json:"title"`
	Message         string               `json:"message"`
	ProjectID       string               `json:"projectId"`
	ProjectTitle    string               `json:"projectTitle"`
	TaskID          string               `json:"taskId"`
	TaskDescription string               `json:"taskDescription"`
	Date            time.Time            `json:"date"`
	Read            bool                 `json:"read"`
	Priority        NotificationPriority `json:"priority"`
}

// ReadNotification records that the user dismissed a notification id.
type ReadNotification struct {
	ID     string    `json:"id"`
	ReadAt time.Time `json:"readAt"`
}

func NotificationID(taskID string) string { return "task-" + taskID }

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(calendarDay(to).Sub(calendarDay(from)).Hours() / 24)
}

func inDays(n int) string {
	switch n {
	case 0:
		return "today"
	case 1:
		return "in 1 day"
	}
	return fmt.Sprintf("in %d days", n)
}

// TaskNotification applies the overdue, due-soon and starting-soon rules in that order
// and returns the first that matches. Completed tasks never notify.
func TaskNotification(t *Task, projectTitle string, now time.Time) (Notification, bool) {
	if t.Status == TaskCompleted {
		return Notification{}, false
	}
	n := Notification{
		ID:              NotificationID(t.ID),
		ProjectID:       t.ProjectID,
		ProjectTitle:    projectTitle,
		TaskID:          t.ID,
		TaskDescription: t.Description,
	}
	if !t.EndDate.IsZero() {
		switch left := daysBetween(now, t.EndDate); {
		case left < 0:
			overdue := -left
			unit := "days"
			if overdue == 1 {
				unit = "day"
			}
			n.Type, n.Priority, n.Date = NotifyTaskOverdue, PriorityHigh, t.EndDate
			n.Title = "Overdue task"
			n.Message = fmt.Sprintf("The task %q is %d %s overdue", t.Description, overdue, unit)
			return n, true
		case left <= DueSoonDays:
			n.Type, n.Priority, n.Date = NotifyTaskDueSoon, PriorityMedium, t.EndDate
			if left == 0 {
				n.Priority = PriorityHigh
			}
			n.Title = "Task due soon"
			n.Message = fmt.Sprintf("The task %q is due %s", t.Description, inDays(left))
			return n, true
		}
	}
	if t.Status == TaskPending && !t.StartDate.IsZero() {
		if left := daysBetween(now, t.StartDate); left >= 0 && left <= StartingSoonDays {
			n.Type, n.Priority, n.Date = NotifyTaskStartingSoon, PriorityLow, t.StartDate
			n.Title = "Task starting soon"
			n.Message = fmt.Sprintf("The task %q starts %s", t.Description, inDays(left))
			return n, true
		}
	}
	return Notification{}, false
}

// BuildNotifications derives at most one notification per task, newest date first.
// Tasks whose project is unknown are skipped.
func BuildNotifications(tasks []Task, projectTitles map[string]string, read map[string]bool, now time.Time) []Notification {
	out := make([]Notification, 0)
	for i := range tasks {
		title, ok := projectTitles[tasks[i].ProjectID]
		if !ok {
			continue
		}
		n, ok := TaskNotification(&tasks[i], title, now)
		if !ok {
			continue
		}
		n.Read = read[n.ID]
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
