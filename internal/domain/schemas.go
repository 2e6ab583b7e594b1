package domain

import (
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

func profileColumns[T any](p func(*T) *Profile) []storage.Column[T] {
	return []storage.Column[T]{
		{Name: "name", Ref: func(r *T) any { return &p(r).Name }},
		{Name: "category", Ref: func(r *T) any { return &p(r).Category }},
		{Name: "role", Ref: func(r *T) any { return &p(r).Role }},
		{Name: "email", Ref: func(r *T) any { return &p(r).Email }},
		{Name: "phone", Ref: func(r *T) any { return &p(r).Phone }},
		{Name: "languages", Ref: func(r *T) any { return (*pq.StringArray)(&p(r).Languages) }},
		{Name: "address", Ref: func(r *T) any { return &p(r).Address }},
		{Name: "website", Ref: func(r *T) any { return &p(r).Website }},
		{Name: "notes", Ref: func(r *T) any { return &p(r).Notes }},
		{Name: "allergies", Ref: func(r *T) any { return &p(r).Allergies }},
		{Name: "has_driving_license", Ref: func(r *T) any { return &p(r).HasDrivingLicense }},
		{Name: "is_visitor", Ref: func(r *T) any { return &p(r).IsVisitor }},
		{Name: "allowed_tabs", Ref: func(r *T) any { return (*pq.StringArray)(&p(r).AllowedTabs) }},
	}
}

func normalizeProfile(p *Profile) {
	if p.Category == "" {
		p.Category = CollabStudios
	}
	p.AllowedTabs = upgradeTabs(p.AllowedTabs)
}

func upgradeTabs(tabs StringList) StringList {
	for i, t := range tabs {
		tabs[i] = upgradeValue(t)
	}
	return tabs.Dedup()
}

var ProjectSchema = &storage.Schema[Project]{
	Domain: storage.KeyProjects,
	Layout: storage.LayoutList,
	ID:     func(p *Project) *string { return &p.ID },
	Columns: []storage.Column[Project]{
		{Name: "title", Ref: func(p *Project) any { return &p.Title }},
		{Name: "description", Ref: func(p *Project) any { return &p.Description }},
		{Name: "status", Ref: func(p *Project) any { return &p.Status }},
		{Name: "category", Ref: func(p *Project) any { return &p.Category }},
		{Name: "subcategory", Ref: func(p *Project) any { return &p.Subcategory }},
		{Name: "region", Ref: func(p *Project) any { return &p.Region }},
		{Name: "country", Ref: func(p *Project) any { return &p.Country }},
		{Name: "created_at", Ref: func(p *Project) any { return &p.CreatedAt }},
		{Name: "updated_at", Ref: func(p *Project) any { return &p.UpdatedAt }},
	},
	Normalize: func(p *Project) {
		p.Status = upgradeValue(p.Status)
		if p.Status == "" {
			p.Status = StatusPreProduction
		}
		if p.Category == "" {
			p.Category = CategoryOriginals
		}
		if p.Subcategory == "" {
			p.Subcategory = SubcategoryFeatureFilm
		}
		if p.Region == "" {
			p.Region = RegionFor(p.Country)
		}
	},
}

var CollaboratorSchema = &storage.Schema[Collaborator]{
	Domain:    storage.KeyCollaborators,
	Layout:    storage.LayoutByProject,
	ID:        func(c *Collaborator) *string { return &c.ID },
	Project:   func(c *Collaborator) *string { return &c.ProjectID },
	Columns:   profileColumns(func(c *Collaborator) *Profile { return &c.Profile }),
	Normalize: func(c *Collaborator) { normalizeProfile(&c.Profile) },
}

var ContactSchema = &storage.Schema[Contact]{
	Domain:    storage.KeyContacts,
	Layout:    storage.LayoutList,
	ID:        func(c *Contact) *string { return &c.ID },
	Columns:   profileColumns(func(c *Contact) *Profile { return &c.Profile }),
	Normalize: func(c *Contact) { normalizeProfile(&c.Profile) },
}

var BudgetSchema = &storage.Schema[BudgetItem]{
	Domain:  storage.KeyBudgets,
	Layout:  storage.LayoutByProject,
	ID:      func(b *BudgetItem) *string { return &b.ID },
	Project: func(b *BudgetItem) *string { return &b.ProjectID },
	Columns: []storage.Column[BudgetItem]{
		{Name: "category", Ref: func(b *BudgetItem) any { return &b.Category }},
		{Name: "description", Ref: func(b *BudgetItem) any { return &b.Description }},
		{Name: "amount", Ref: func(b *BudgetItem) any { return &b.Amount }},
		{Name: "status", Ref: func(b *BudgetItem) any { return &b.Status }},
	},
	Normalize: func(b *BudgetItem) {
		b.Status = upgradeValue(b.Status)
		if b.Status == "" {
			b.Status = BudgetPending
		}
	},
}

var ScriptSchema = &storage.Schema[Script]{
	Domain:  storage.KeyScripts,
	Layout:  storage.LayoutByProject,
	ID:      func(s *Script) *string { return &s.ID },
	Project: func(s *Script) *string { return &s.ProjectID },
	Columns: []storage.Column[Script]{
		{Name: "title", Ref: func(s *Script) any { return &s.Title }},
		{Name: "version", Ref: func(s *Script) any { return &s.Version }},
		{Name: "last_modified", Ref: func(s *Script) any { return &s.LastModified }},
		{Name: "content", Ref: func(s *Script) any { return &s.Content }},
	},
	Less: func(a, b *Script) bool { return a.LastModified.After(b.LastModified) },
}

var DocumentSchema = &storage.Schema[Document]{
	Domain:  storage.KeyDocuments,
	Layout:  storage.LayoutByProject,
	ID:      func(d *Document) *string { return &d.ID },
	Project: func(d *Document) *string { return &d.ProjectID },
	Columns: []storage.Column[Document]{
		{Name: "name", Ref: func(d *Document) any { return &d.Name }},
		{Name: "type", Ref: func(d *Document) any { return &d.Type }},
		{Name: "category", Ref: func(d *Document) any { return &d.Category }},
		{Name: "uploaded_at", Ref: func(d *Document) any { return &d.UploadedAt }},
		{Name: "size", Ref: func(d *Document) any { return &d.Size }},
		{Name: "is_drive_file", Ref: func(d *Document) any { return &d.IsDriveFile }},
		{Name: "drive_file_id", Ref: func(d *Document) any { return &d.DriveFileID }},
		{Name: "drive_folder_id", Ref: func(d *Document) any { return &d.DriveFolderID }},
	},
	Normalize: func(d *Document) {
		if d.Category == "" {
			d.Category = DocOther
		}
		// older payloads used the Drive file id as the document id
		if d.IsDriveFile && d.DriveFileID == "" {
			d.DriveFileID = d.ID
		}
	},
}

var DirectorSchema = &storage.Schema[Director]{
	Domain:  storage.KeyDirectors,
	Layout:  storage.LayoutOnePerProject,
	ID:      func(d *Director) *string { return &d.ID },
	Project: func(d *Director) *string { return &d.ProjectID },
	Columns: []storage.Column[Director]{
		{Name: "name", Ref: func(d *Director) any { return &d.Name }},
		{Name: "email", Ref: func(d *Director) any { return &d.Email }},
		{Name: "phone", Ref: func(d *Director) any { return &d.Phone }},
		{Name: "bio", Ref: func(d *Director) any { return &d.Bio }},
	},
}

var VisitorSchema = &storage.Schema[Visitor]{
	Domain:  storage.KeyVisitors,
	Layout:  storage.LayoutByProject,
	ID:      func(v *Visitor) *string { return &v.ID },
	Project: func(v *Visitor) *string { return &v.ProjectID },
	Columns: []storage.Column[Visitor]{
		{Name: "email", Ref: func(v *Visitor) any { return &v.Email }},
		{Name: "name", Ref: func(v *Visitor) any { return &v.Name }},
		{Name: "invited_at", Ref: func(v *Visitor) any { return &v.InvitedAt }},
		{Name: "allowed_tabs", Ref: func(v *Visitor) any { return (*pq.StringArray)(&v.AllowedTabs) }},
		{Name: "status", Ref: func(v *Visitor) any { return &v.Status }},
	},
	Normalize: func(v *Visitor) {
		v.AllowedTabs = upgradeTabs(v.AllowedTabs)
		if v.AllowedTabs == nil {
			v.AllowedTabs = StringList{}
		}
		if v.Status == "" {
			v.Status = VisitorPending
		}
	},
}

var TaskSchema = &storage.Schema[Task]{
	Domain:  storage.KeyTasks,
	Layout:  storage.LayoutByProject,
	ID:      func(t *Task) *string { return &t.ID },
	Project: func(t *Task) *string { return &t.ProjectID },
	Columns: []storage.Column[Task]{
		{Name: "description", Ref: func(t *Task) any { return &t.Description }},
		{Name: "assigned_to", Ref: func(t *Task) any { return (*pq.StringArray)(&t.AssignedTo) }},
		{Name: "start_date", Ref: func(t *Task) any { return &t.StartDate }},
		{Name: "end_date", Ref: func(t *Task) any { return &t.EndDate }},
		{Name: "status", Ref: func(t *Task) any { return &t.Status }},
	},
	Normalize: func(t *Task) {
		t.Status = upgradeValue(t.Status)
		if t.Status == "" {
			t.Status = TaskPending
		}
		t.AssignedTo = t.AssignedTo.Dedup()
		if t.AssignedTo == nil {
			t.AssignedTo = StringList{}
		}
	},
	Less: TaskLess,
}

var FestivalSchema = &storage.Schema[Festival]{
	Domain: storage.KeyFestivals,
	Layout: storage.LayoutList,
	ID:     func(f *Festival) *string { return &f.ID },
	Columns: []storage.Column[Festival]{
		{Name: "name", Ref: func(f *Festival) any { return &f.Name }},
		{Name: "region", Ref: func(f *Festival) any { return &f.Region }},
		{Name: "year", Ref: func(f *Festival) any { return &f.Year }},
		{Name: "film_submission_deadline", Ref: func(f *Festival) any { return &f.FilmSubmissionDeadline }},
		{Name: "producers_hub_deadline", Ref: func(f *Festival) any { return &f.ProducersHubDeadline }},
		{Name: "start_date", Ref: func(f *Festival) any { return &f.StartDate }},
		{Name: "end_date", Ref: func(f *Festival) any { return &f.EndDate }},
		{Name: "number_of_days", Ref: func(f *Festival) any { return &f.NumberOfDays }},
		{Name: "contacts", Ref: func(f *Festival) any { return &f.Contacts }},
		{Name: "website", Ref: func(f *Festival) any { return &f.Website }},
		{Name: "location", Ref: func(f *Festival) any { return &f.Location }},
	},
	Normalize: func(f *Festival) {
		if f.Contacts == nil {
			f.Contacts = FestivalContacts{}
		}
	},
	Less: func(a, b *Festival) bool { return a.StartDate.Before(b.StartDate) },
}

var CalendarEventSchema = &storage.Schema[CalendarEvent]{
	Domain: storage.KeyCalendarEvents,
	Layout: storage.LayoutList,
	ID:     func(e *CalendarEvent) *string { return &e.ID },
	Columns: []storage.Column[CalendarEvent]{
		{Name: "title", Ref: func(e *CalendarEvent) any { return &e.Title }},
		{Name: "date", Ref: func(e *CalendarEvent) any { return &e.Date }},
		{Name: "time", Ref: func(e *CalendarEvent) any { return &e.Time }},
		{Name: "project_id", Ref: func(e *CalendarEvent) any { return &e.ProjectID }},
		{Name: "type", Ref: func(e *CalendarEvent) any { return &e.Type }},
	},
	Normalize: func(e *CalendarEvent) {
		e.Type = upgradeValue(e.Type)
		if e.Type == "" {
			e.Type = EventOther
		}
	},
}

var ReadNotificationSchema = &storage.Schema[ReadNotification]{
	Domain: storage.KeyReadNotifications,
	Layout: storage.LayoutList,
	ID:     func(r *ReadNotification) *string { return &r.ID },
	Columns: []storage.Column[ReadNotification]{
		{Name: "read_at", Ref: func(r *ReadNotification) any { return &r.ReadAt }},
	},
}

var OptionSetSchema = &storage.Schema[OptionSet]{
	Domain: storage.KeyCustomOptions,
	Layout: storage.LayoutList,
	ID:     func(o *OptionSet) *string { return &o.ID },
	Columns: []storage.Column[OptionSet]{
		{Name: "labels", Ref: func(o *OptionSet) any { return &o.Labels }},
	},
	Normalize: func(o *OptionSet) {
		if o.Labels == nil {
			o.Labels = OptionLabels{}
			return
		}
		for k, v := range o.Labels {
			if nk := upgradeValue(k); nk != k {
				delete(o.Labels, k)
				if _, taken := o.Labels[nk]; !taken {
					o.Labels[nk] = v
				}
			}
		}
	},
}

// SortTasks orders tasks in place: open tasks first, then by earliest end date.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return TaskLess(&tasks[i], &tasks[j]) })
}

func TaskLess(a, b *Task) bool {
	ad, bd := a.Status == TaskCompleted, b.Status == TaskCompleted
	if ad != bd {
		return !ad
	}
	return a.EndDate.Before(b.EndDate)
}

// SameText compares trimmed strings case-insensitively.
func SameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
