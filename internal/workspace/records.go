package workspace

import (
	"context"
	"fmt"
	"io"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

func (w *Workspace) Budget(projectID string) []domain.BudgetItem {
	return w.budgets.ListByProject(projectID)
}

func (w *Workspace) AddBudgetItem(ctx context.Context, projectID string, b domain.BudgetItem) (domain.BudgetItem, error) {
	b.ProjectID = projectID
	normalize(domain.BudgetSchema, &b)
	return w.budgets.Create(ctx, b)
}

func (w *Workspace) UpdateBudgetItem(ctx context.Context, id string, apply func(*domain.BudgetItem), fields ...string) (domain.BudgetItem, error) {
	return w.budgets.Update(ctx, id, apply, fields...)
}

func (w *Workspace) RemoveBudgetItem(ctx context.Context, id string) error {
	return w.budgets.Remove(ctx, id)
}

func (w *Workspace) BudgetSummary(projectID string) domain.BudgetSummary {
	return domain.SummarizeBudget(w.budgets.ListByProject(projectID))
}

// Scripts lists the project's scripts, most recently modified first.
func (w *Workspace) Scripts(projectID string) []domain.Script {
	return w.scripts.ListByProject(projectID)
}

func (w *Workspace) AddScript(ctx context.Context, projectID string, s domain.Script) (domain.Script, error) {
	s.ProjectID = projectID
	if s.LastModified.IsZero() {
		s.LastModified = w.now()
	}
	return w.scripts.Create(ctx, s)
}

func (w *Workspace) RemoveScript(ctx context.Context, id string) error {
	return w.scripts.Remove(ctx, id)
}

func (w *Workspace) Documents(projectID string) []domain.Document {
	return w.documents.ListByProject(projectID)
}

func (w *Workspace) AddDocument(ctx context.Context, projectID string, d domain.Document) (domain.Document, error) {
	d.ProjectID = projectID
	if d.UploadedAt.IsZero() {
		d.UploadedAt = w.now()
	}
	normalize(domain.DocumentSchema, &d)
	return w.documents.Create(ctx, d)
}

func (w *Workspace) RemoveDocument(ctx context.Context, id string) error {
	return w.documents.Remove(ctx, id)
}

// ImportDriveFolder adds a document for every file in the Drive folder not yet listed
// for the project and returns the added documents. The same folder may be imported into
// several projects.
func (w *Workspace) ImportDriveFolder(ctx context.Context, projectID, folderID string) ([]domain.Document, error) {
	p := w.provider()
	if p == nil || p.Drive == nil {
		return nil, ErrNotConnected
	}
	files, err := p.Drive.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}
	listed := make(map[string]struct{})
	for _, d := range w.documents.ListByProject(projectID) {
		if d.DriveFileID != "" {
			listed[d.DriveFileID] = struct{}{}
		}
	}
	out := []domain.Document{}
	for _, f := range files {
		if _, ok := listed[f.ID]; ok {
			continue
		}
		listed[f.ID] = struct{}{}
		d, err := w.documents.Create(ctx, f.Document(projectID, folderID))
		if err != nil {
			return out, fmt.Errorf("import %s: %w", f.Name, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// UploadDocument stores the content in Drive and records it as a project document.
func (w *Workspace) UploadDocument(ctx context.Context, projectID, folderID, name, mimeType string, r io.Reader) (domain.Document, error) {
	p := w.provider()
	if p == nil || p.Drive == nil {
		return domain.Document{}, ErrNotConnected
	}
	f, err := p.Drive.Upload(ctx, folderID, name, mimeType, r)
	if err != nil {
		return domain.Document{}, err
	}
	d := f.Document(projectID, folderID)
	d.UploadedAt = w.now()
	normalize(domain.DocumentSchema, &d)
	return w.documents.Create(ctx, d)
}

// OpenDocument streams the Drive content behind a document. Documents that were only
// recorded locally have no content to return.
func (w *Workspace) OpenDocument(ctx context.Context, id string) (domain.Document, io.ReadCloser, error) {
	d, ok := w.documents.FindByID(id)
	if !ok || !d.IsDriveFile || d.DriveFileID == "" {
		return domain.Document{}, nil, ErrNotFound
	}
	p := w.provider()
	if p == nil || p.Drive == nil {
		return domain.Document{}, nil, ErrNotConnected
	}
	rc, err := p.Drive.Download(ctx, d.DriveFileID)
	if err != nil {
		return domain.Document{}, nil, err
	}
	return d, rc, nil
}

// Director returns the project's director, if one is set.
func (w *Workspace) Director(projectID string) (domain.Director, bool) {
	ds := w.directors.ListByProject(projectID)
	if len(ds) == 0 {
		return domain.Director{}, false
	}
	return ds[0], true
}

// SetDirector replaces the project's director.
func (w *Workspace) SetDirector(ctx context.Context, projectID string, d domain.Director) (domain.Director, error) {
	return w.directors.Upsert(ctx, projectID, d)
}

// Tasks lists open tasks before completed ones, earliest end date first.
func (w *Workspace) Tasks(projectID string) []domain.Task {
	return w.tasks.ListByProject(projectID)
}

func (w *Workspace) AddTask(ctx context.Context, projectID string, t domain.Task) (domain.Task, error) {
	t.ProjectID = projectID
	normalize(domain.TaskSchema, &t)
	return w.tasks.Create(ctx, t)
}

func (w *Workspace) UpdateTask(ctx context.Context, id string, apply func(*domain.Task), fields ...string) (domain.Task, error) {
	return w.tasks.Update(ctx, id, func(t *domain.Task) {
		apply(t)
		t.AssignedTo = t.AssignedTo.Dedup()
		if t.AssignedTo == nil {
			t.AssignedTo = domain.StringList{}
		}
	}, fields...)
}

func (w *Workspace) RemoveTask(ctx context.Context, id string) error {
	return w.tasks.Remove(ctx, id)
}
