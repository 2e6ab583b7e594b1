package workspace_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmdesk/filmdesk-backend/internal/auth"
	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/google"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
	"github.com/filmdesk/filmdesk-backend/internal/workspace"
)

var ctx = context.Background()

type fakeMail struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMail) SendMessage(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

type fakeCalendar struct {
	events    []domain.CalendarEvent
	deleted   []string
	published []string
}

func (c *fakeCalendar) ListEvents(context.Context, time.Time, time.Time) ([]domain.CalendarEvent, error) {
	return c.events, nil
}

func (c *fakeCalendar) CreateEvent(_ context.Context, e domain.CalendarEvent) (domain.CalendarEvent, error) {
	c.published = append(c.published, e.Title)
	e.ID = google.EventIDPrefix + "new"
	return e, nil
}

func (c *fakeCalendar) UpdateEvent(context.Context, domain.CalendarEvent) error { return nil }

func (c *fakeCalendar) DeleteEvent(_ context.Context, id string) error {
	c.deleted = append(c.deleted, id)
	return nil
}

type fakeDrive struct {
	files    map[string]string
	uploaded []string
}

func (d *fakeDrive) ListFiles(context.Context, string) ([]google.File, error) {
	return []google.File{{ID: "f1", Name: "call-sheet.pdf", MimeType: "application/pdf"}}, nil
}

func (d *fakeDrive) Upload(_ context.Context, folderID, name, mimeType string, r io.Reader) (google.File, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return google.File{}, err
	}
	id := "up" + name
	d.files[id] = string(b)
	d.uploaded = append(d.uploaded, folderID+"/"+name)
	return google.File{ID: id, Name: name, MimeType: mimeType, Size: int64(len(b))}, nil
}

func (d *fakeDrive) Download(_ context.Context, fileID string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(d.files[fileID])), nil
}

type fixture struct {
	kv  storage.KV
	now time.Time
	ws  *workspace.Workspace
}

func setup(t *testing.T, providers workspace.ProviderFactory) *fixture {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	f := &fixture{
		kv:  storage.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()})),
		now: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	f.ws = f.open(providers)
	return f
}

func (f *fixture) open(providers workspace.ProviderFactory) *workspace.Workspace {
	return workspace.New(workspace.Options{
		Local:                f.kv,
		Providers:            providers,
		FestivalInitialDelay: time.Hour,
		Now:                  func() time.Time { return f.now },
	})
}

func login(t *testing.T, ws *workspace.Workspace, uid string) {
	t.Helper()
	ws.OnIdentity(uid)
	t.Cleanup(func() { ws.OnIdentity("") })
}

func TestWorkspace_RequiresSession(t *testing.T) {
	f := setup(t, nil)
	_, err := f.ws.CreateProject(ctx, domain.Project{Title: "Film"})
	assert.ErrorIs(t, err, workspace.ErrNoSession)
	assert.Empty(t, f.ws.Projects())
}

func TestWorkspace_IdempotentLoad(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")

	p, err := f.ws.CreateProject(ctx, domain.Project{Title: "Film"})
	require.NoError(t, err)
	_, err = f.ws.AddTask(ctx, p.ID, domain.Task{Description: "Scout"})
	require.NoError(t, err)

	f.ws.OnIdentity("u1")
	f.ws.OnIdentity("u1")

	assert.Len(t, f.ws.Projects(), 1)
	assert.Len(t, f.ws.Tasks(p.ID), 1)
	assert.Len(t, f.ws.Festivals(), 12)
}

func TestWorkspace_IdentityIsolation(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")
	_, err := f.ws.CreateProject(ctx, domain.Project{Title: "Mine"})
	require.NoError(t, err)

	f.ws.OnIdentity("u2")
	assert.Empty(t, f.ws.Projects())
	assert.Equal(t, "u2", f.ws.UserID())

	f.ws.OnIdentity("u1")
	require.Len(t, f.ws.Projects(), 1)
	assert.Equal(t, "Mine", f.ws.Projects()[0].Title)
}

func TestWorkspace_CreateProjectDefaultsAndSeeds(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")

	p, err := f.ws.CreateProject(ctx, domain.Project{Title: "Doc", Country: "Spain"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, domain.StatusPreProduction, p.Status)
	assert.Equal(t, domain.CategoryOriginals, p.Category)
	assert.Equal(t, domain.SubcategoryFeatureFilm, p.Subcategory)
	assert.Equal(t, f.now, p.CreatedAt)

	for _, d := range []string{storage.KeyCollaborators, storage.KeyBudgets, storage.KeyScripts,
		storage.KeyDocuments, storage.KeyDirectors, storage.KeyVisitors, storage.KeyTasks} {
		assert.True(t, f.ws.HasProjectEntry(d, p.ID), d)
	}

	f.now = f.now.Add(time.Hour)
	updated, err := f.ws.UpdateProject(ctx, p.ID, func(p *domain.Project) { p.Title = "Doc II" }, "title")
	require.NoError(t, err)
	assert.Equal(t, "Doc II", updated.Title)
	assert.Equal(t, f.now, updated.UpdatedAt)
}

func TestWorkspace_CascadeOnProjectRemoval(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")

	p, err := f.ws.CreateProject(ctx, domain.Project{Title: "Doomed"})
	require.NoError(t, err)
	keep, err := f.ws.CreateProject(ctx, domain.Project{Title: "Keeper"})
	require.NoError(t, err)

	_, err = f.ws.AddCollaborator(ctx, p.ID, domain.Collaborator{Profile: domain.Profile{Name: "Ana"}})
	require.NoError(t, err)
	_, err = f.ws.AddBudgetItem(ctx, p.ID, domain.BudgetItem{Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = f.ws.AddTask(ctx, p.ID, domain.Task{Description: "x"})
	require.NoError(t, err)
	_, err = f.ws.AddTask(ctx, keep.ID, domain.Task{Description: "y"})
	require.NoError(t, err)
	_, err = f.ws.SetDirector(ctx, p.ID, domain.Director{Name: "Dir"})
	require.NoError(t, err)

	require.NoError(t, f.ws.RemoveProject(ctx, p.ID))

	_, ok := f.ws.Project(p.ID)
	assert.False(t, ok)
	assert.Empty(t, f.ws.Collaborators(p.ID))
	assert.Empty(t, f.ws.Budget(p.ID))
	assert.Empty(t, f.ws.Tasks(p.ID))
	_, ok = f.ws.Director(p.ID)
	assert.False(t, ok)
	assert.False(t, f.ws.HasProjectEntry(storage.KeyTasks, p.ID))
	assert.Len(t, f.ws.Tasks(keep.ID), 1)

	// the contact registry is global and survives
	assert.Len(t, f.ws.Contacts(), 1)

	// and the deletion reached storage
	f.ws.OnIdentity("u2")
	f.ws.OnIdentity("u1")
	assert.Empty(t, f.ws.Tasks(p.ID))
	assert.Len(t, f.ws.Projects(), 1)
}

func TestWorkspace_WriteThenReadAcrossInstances(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")

	p, err := f.ws.CreateProject(ctx, domain.Project{Title: "Film"})
	require.NoError(t, err)
	_, err = f.ws.AddScript(ctx, p.ID, domain.Script{Title: "Draft", Version: "1"})
	require.NoError(t, err)

	other := f.open(nil)
	login(t, other, "u1")
	require.Len(t, other.Scripts(p.ID), 1)
	assert.Equal(t, "Draft", other.Scripts(p.ID)[0].Title)
	assert.True(t, other.HasProjectEntry(storage.KeyBudgets, p.ID))
}

func TestWorkspace_LogoutClearsState(t *testing.T) {
	f := setup(t, nil)
	id := auth.NewIdentity()
	detach := f.ws.Attach(id)
	defer detach()

	id.Set("u1")
	_, err := f.ws.CreateProject(ctx, domain.Project{Title: "Film"})
	require.NoError(t, err)
	require.NoError(t, f.ws.RemoveFestival(ctx, f.ws.Festivals()[0].ID))
	require.Len(t, f.ws.Festivals(), 11)

	id.Set("")
	assert.Empty(t, f.ws.Projects())
	assert.Empty(t, f.ws.Contacts())
	assert.Len(t, f.ws.Festivals(), 12)
	assert.Equal(t, "", f.ws.UserID())
}

func TestWorkspace_TaskOrdering(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")
	p, err := f.ws.CreateProject(ctx, domain.Project{Title: "Film"})
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC) }
	for _, tk := range []domain.Task{
		{ID: "T1", EndDate: day(1), Status: domain.TaskCompleted},
		{ID: "T2", EndDate: day(10), Status: domain.TaskPending},
		{ID: "T3", EndDate: day(5), Status: domain.TaskInProgress},
	} {
		_, err := f.ws.AddTask(ctx, p.ID, tk)
		require.NoError(t, err)
	}

	var got []string
	for _, tk := range f.ws.Tasks(p.ID) {
		got = append(got, tk.ID)
	}
	assert.Equal(t, []string{"T3", "T2", "T1"}, got)

	updated, err := f.ws.UpdateTask(ctx, "T2", func(t *domain.Task) {
		t.AssignedTo = domain.StringList{"ana", "luis", "ana", ""}
	}, "assigned_to")
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"ana", "luis"}, updated.AssignedTo)
}

func TestWorkspace_ContactDedup(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")

	_, err := f.ws.UpsertContact(ctx, domain.Contact{Profile: domain.Profile{Name: "Jane", Email: "jane@x.com", Phone: "1"}})
	require.NoError(t, err)
	_, err = f.ws.UpsertContact(ctx, domain.Contact{Profile: domain.Profile{Name: "JANE", Email: "Jane@X.com", Phone: "2"}})
	require.NoError(t, err)

	contacts := f.ws.Contacts()
	require.Len(t, contacts, 1)
	assert.Equal(t, "2", contacts[0].Phone)

	c, ok := f.ws.FindContactByName("  jane ")
	require.True(t, ok)
	assert.Equal(t, contacts[0].ID, c.ID)

	_, err = f.ws.UpdateContactByEmail(ctx, "JANE@x.com", func(c *domain.Contact) { c.Notes = "vip" })
	require.NoError(t, err)
	_, err = f.ws.UpdateContactByEmail(ctx, "nobody@x.com", func(*domain.Contact) {})
	assert.ErrorIs(t, err, workspace.ErrNotFound)

	for _, n := range []string{"Alejandro", "Maja", "Jan", "Benjamin"} {
		_, err := f.ws.UpsertContact(ctx, domain.Contact{Profile: domain.Profile{Name: n}})
		require.NoError(t, err)
	}
	var names []string
	for _, c := range f.ws.SearchContacts("ja") {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"JANE", "Jan", "Alejandro", "Maja", "Benjamin"}, names)
	assert.Empty(t, f.ws.SearchContacts(" "))
}

func TestWorkspace_CollaboratorFeedsContacts(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")
	p, err := f.ws.CreateProject(ctx, domain.Project{Title: "Film"})
	require.NoError(t, err)

	c, err := f.ws.AddCollaborator(ctx, p.ID, domain.Collaborator{Profile: domain.Profile{Name: "Studio A", Email: "a@studio.com"}})
	require.NoError(t, err)
	assert.Equal(t, domain.CollabStudios, c.Category)

	_, ok := f.ws.FindContactByName("studio a")
	assert.True(t, ok)
}

func TestWorkspace_BudgetSummary(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")
	p, err := f.ws.CreateProject(ctx, domain.Project{Title: "Film"})
	require.NoError(t, err)

	for _, b := range []domain.BudgetItem{
		{Amount: decimal.NewFromInt(100), Status: domain.BudgetApproved},
		{Amount: decimal.NewFromInt(50), Status: domain.BudgetPending},
		{Amount: decimal.NewFromInt(25), Status: domain.BudgetRejected},
	} {
		_, err := f.ws.AddBudgetItem(ctx, p.ID, b)
		require.NoError(t, err)
	}

	s := f.ws.BudgetSummary(p.ID)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(175)))
	assert.True(t, s.Approved.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.Pending.Equal(decimal.NewFromInt(50)))
	assert.True(t, s.Rejected.Equal(decimal.NewFromInt(25)))
}

func TestWorkspace_CorruptPayloadLoadsEmpty(t *testing.T) {
	f := setup(t, nil)
	require.NoError(t, f.kv.Set(ctx, storage.ScopedKey(storage.KeyProjects, "u1"), "{not json"))

	assert.NotPanics(t, func() { login(t, f.ws, "u1") })
	assert.Empty(t, f.ws.Projects())
	assert.False(t, f.ws.Loading())
}

func TestWorkspace_WritableAfterCorruptPayload(t *testing.T) {
	f := setup(t, nil)
	require.NoError(t, f.kv.Set(ctx, storage.ScopedKey(storage.KeyProjects, "u1"), "{not json"))
	login(t, f.ws, "u1")

	p, err := f.ws.CreateProject(ctx, domain.Project{Title: "Recovered"})
	require.NoError(t, err)

	f.ws.OnIdentity("u1")
	require.Len(t, f.ws.Projects(), 1)
	assert.Equal(t, p.ID, f.ws.Projects()[0].ID)

	again := f.open(nil)
	login(t, again, "u1")
	assert.Len(t, again.Projects(), 1)
}

func TestWorkspace_VisitorInvitationFlow(t *testing.T) {
	mail := &fakeMail{}
	f := setup(t, func(context.Context, string) (*workspace.Providers, error) {
		return &workspace.Providers{Mail: mail}, nil
	})
	login(t, f.ws, "owner")
	p, err := f.ws.CreateProject(ctx, domain.Project{Title: "Night Shoot"})
	require.NoError(t, err)

	v, err := f.ws.InviteVisitor(ctx, p.ID, domain.Visitor{
		Email:       "guest@x.com",
		AllowedTabs: domain.StringList{"tareas", domain.TabTasks, domain.TabBudget},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VisitorPending, v.Status)
	assert.Equal(t, domain.StringList{domain.TabTasks, domain.TabBudget}, v.AllowedTabs)
	assert.Equal(t, []string{"guest@x.com|Invitation to Night Shoot"}, mail.sent)

	// the guest resolves the token from another session
	f.ws.OnIdentity("guest")
	inv, err := f.ws.LookupInvitation(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", inv.Owner)

	_, err = f.ws.ActivateVisitor(ctx, v.ID)
	assert.ErrorIs(t, err, workspace.ErrInvalidTransition)

	inv, err = f.ws.AcceptInvitation(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VisitorAccepted, inv.Visitor.Status)

	_, err = f.ws.AcceptInvitation(ctx, v.ID)
	assert.ErrorIs(t, err, workspace.ErrInvalidTransition)

	_, err = f.ws.LookupInvitation(ctx, "missing")
	assert.ErrorIs(t, err, workspace.ErrNotFound)

	f.ws.OnIdentity("owner")
	visitors := f.ws.Visitors(p.ID)
	require.Len(t, visitors, 1)
	assert.Equal(t, domain.VisitorAccepted, visitors[0].Status)

	inv, err = f.ws.ActivateVisitor(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VisitorActive, f.ws.Visitors(p.ID)[0].Status)

	_, err = f.ws.UpdateVisitor(ctx, v.ID, func(v *domain.Visitor) { v.Status = domain.VisitorPending })
	assert.ErrorIs(t, err, workspace.ErrInvalidTransition)
}

func TestWorkspace_FestivalRollover(t *testing.T) {
	f := setup(t, nil)
	login(t, f.ws, "u1")
	assert.Len(t, f.ws.FestivalsByYear(2025), 6)
	assert.Len(t, f.ws.FestivalsByYear(2026), 6)
	assert.NotEmpty(t, f.ws.FestivalsByRegion(domain.RegionEurope))

	f.now = time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	plan, err := f.ws.RolloverFestivals(ctx)
	require.NoError(t, err)
	assert.Len(t, plan.Remove, 12)

	assert.Empty(t, f.ws.FestivalsByYear(2025))
	assert.Empty(t, f.ws.FestivalsByYear(2026))
	assert.Len(t, f.ws.FestivalsByYear(2027), 6)
	assert.Len(t, f.ws.FestivalsByYear(2028), 6)

	plan, err = f.ws.RolloverFestivals(ctx)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestWorkspace_ProviderCalendarEvents(t *testing.T) {
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []domain.CalendarEvent{
		{ID: google.EventIDPrefix + "g1", Title: "Remote", Date: day, Time: "15:00"},
	}}
	f := setup(t, func(context.Context, string) (*workspace.Providers, error) {
		return &workspace.Providers{Calendar: cal}, nil
	})
	login(t, f.ws, "u1")
	assert.True(t, f.ws.Connected())

	local, err := f.ws.AddEvent(ctx, domain.CalendarEvent{Title: "Shoot", Date: day.Add(9 * time.Hour), Type: "rodaje"})
	require.NoError(t, err)
	assert.Equal(t, domain.EventShoot, local.Type)
	assert.Equal(t, day, local.Date)

	assert.Eventually(t, func() bool { return len(f.ws.EventsOn(day)) == 2 }, time.Second, 10*time.Millisecond)
	assert.Len(t, f.ws.Events(), 1)

	require.NoError(t, f.ws.DeleteEvent(ctx, google.EventIDPrefix+"g1"))
	assert.Equal(t, []string{"google_g1"}, cal.deleted)

	pub, err := f.ws.PublishEvent(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, "google_new", pub.ID)
	assert.Equal(t, []string{"Shoot"}, cal.published)
	assert.Len(t, f.ws.Events(), 1)

	_, err = f.ws.PublishEvent(ctx, "missing")
	assert.ErrorIs(t, err, workspace.ErrNotFound)
}

func TestWorkspace_ProvidersNotConnected(t *testing.T) {
	f := setup(t, func(context.Context, string) (*workspace.Providers, error) {
		return nil, google.ErrNoToken
	})
	login(t, f.ws, "u1")
	assert.False(t, f.ws.Connected())
	assert.ErrorIs(t, f.ws.RefreshCalendar(ctx), workspace.ErrNotConnected)
	_, err := f.ws.ImportDriveFolder(ctx, "p1", "folder")
	assert.ErrorIs(t, err, workspace.ErrNotConnected)
}

func TestWorkspace_DriveDocuments(t *testing.T) {
	drv := &fakeDrive{files: map[string]string{"f1": "PDF"}}
	f := setup(t, func(context.Context, string) (*workspace.Providers, error) {
		return &workspace.Providers{Drive: drv}, nil
	})
	login(t, f.ws, "u1")

	added, err := f.ws.ImportDriveFolder(ctx, "p1", "folder")
	require.NoError(t, err)
	require.Len(t, added, 1)
	first := added[0]
	assert.NotEqual(t, "f1", first.ID)
	assert.Equal(t, "f1", first.DriveFileID)
	added, err = f.ws.ImportDriveFolder(ctx, "p1", "folder")
	require.NoError(t, err)
	assert.Empty(t, added)

	added, err = f.ws.ImportDriveFolder(ctx, "p2", "folder")
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotEqual(t, first.ID, added[0].ID)
	assert.Equal(t, "f1", added[0].DriveFileID)
	assert.Len(t, f.ws.Documents("p2"), 1)

	_, rc, err := f.ws.OpenDocument(ctx, added[0].ID)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	d, err := f.ws.UploadDocument(ctx, "p1", "folder", "script.txt", "text/plain", strings.NewReader("INT. HOUSE"))
	require.NoError(t, err)
	assert.True(t, d.IsDriveFile)
	assert.Equal(t, f.now, d.UploadedAt)
	assert.Equal(t, []string{"folder/script.txt"}, drv.uploaded)
	assert.Len(t, f.ws.Documents("p1"), 2)

	_, rc, err = f.ws.OpenDocument(ctx, d.ID)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "INT. HOUSE", string(b))

	local, err := f.ws.AddDocument(ctx, "p1", domain.Document{Name: "notes"})
	require.NoError(t, err)
	_, _, err = f.ws.OpenDocument(ctx, local.ID)
	assert.ErrorIs(t, err, workspace.ErrNotFound)
}

func TestWorkspace_LegacyDriveDocumentKeepsFileID(t *testing.T) {
	drv := &fakeDrive{files: map[string]string{"legacy-file": "OLD"}}
	f := setup(t, func(context.Context, string) (*workspace.Providers, error) {
		return &workspace.Providers{Drive: drv}, nil
	})
	legacy := `{"p1":[{"id":"legacy-file","name":"old.pdf","isDriveFile":true,"driveFolderId":"folder","uploadedAt":"2024-05-01T00:00:00Z"}]}`
	require.NoError(t, f.kv.Set(ctx, storage.ScopedKey(storage.KeyDocuments, "u1"), legacy))
	login(t, f.ws, "u1")

	docs := f.ws.Documents("p1")
	require.Len(t, docs, 1)
	assert.Equal(t, "legacy-file", docs[0].DriveFileID)

	_, rc, err := f.ws.OpenDocument(ctx, docs[0].ID)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "OLD", string(b))
}
