// Package workspace is the session object behind the UI: one Store per domain for the
// identity signed in on the device, reloaded on every identity change.
package workspace

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/filmdesk/filmdesk-backend/internal/auth"
	"github.com/filmdesk/filmdesk-backend/internal/calendar"
	"github.com/filmdesk/filmdesk-backend/internal/datastore"
	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/festivals"
	"github.com/filmdesk/filmdesk-backend/internal/logging"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

var (
	ErrNoSession         = datastore.ErrNoSession
	ErrNotFound          = storage.ErrNotFound
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotConnected      = errors.New("google account not connected")
)

type Options struct {
	// Local is the device store. It is authoritative unless Remote is set.
	Local storage.KV
	// Remote enables the relational backend and the one-time migration into it.
	Remote *sql.DB

	Providers            ProviderFactory
	CalendarPollInterval time.Duration
	CalendarRefreshGap   time.Duration
	FestivalInitialDelay time.Duration
	LoadTimeout          time.Duration
	Now                  func() time.Time
}

func (o *Options) defaults() {
	if o.CalendarPollInterval == 0 {
		o.CalendarPollInterval = 5 * time.Minute
	}
	if o.CalendarRefreshGap == 0 {
		o.CalendarRefreshGap = 10 * time.Second
	}
	if o.FestivalInitialDelay == 0 {
		o.FestivalInitialDelay = time.Second
	}
	if o.LoadTimeout == 0 {
		o.LoadTimeout = 30 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type loader interface {
	Domain() string
	Load(ctx context.Context, userID string) error
	Reset()
}

type projectScoped interface {
	Domain() string
	SeedProject(projectID string)
	DropProject(ctx context.Context, projectID string) error
}

type Workspace struct {
	opts Options

	projects      *datastore.Store[domain.Project]
	collaborators *datastore.Store[domain.Collaborator]
	contacts      *datastore.Store[domain.Contact]
	budgets       *datastore.Store[domain.BudgetItem]
	scripts       *datastore.Store[domain.Script]
	documents     *datastore.Store[domain.Document]
	directors     *datastore.Store[domain.Director]
	visitors      *datastore.Store[domain.Visitor]
	tasks         *datastore.Store[domain.Task]
	festivals     *datastore.Store[domain.Festival]
	events        *datastore.Store[domain.CalendarEvent]
	readNotes     *datastore.Store[domain.ReadNotification]
	options       *datastore.Store[domain.OptionSet]

	loaders   []loader
	dependent []projectScoped
	scheduler *festivals.Scheduler

	mu        sync.RWMutex
	userID    string
	providers *Providers
	poller    *calendar.Poller
}

func newStore[T any](o Options, schema *storage.Schema[T], defaults func() []T) *datastore.Store[T] {
	local := storage.NewKVBackend(o.Local, schema)
	cfg := datastore.Config[T]{Schema: schema, Backend: local, Defaults: defaults}
	if o.Remote != nil {
		remote := storage.NewSQLBackend(o.Remote, schema)
		cfg.Backend = remote
		cfg.Migrator = datastore.NewMigrator(schema, local, remote)
	}
	return datastore.New(cfg)
}

func New(opts Options) *Workspace {
	opts.defaults()
	w := &Workspace{opts: opts}

	w.projects = newStore(opts, domain.ProjectSchema, nil)
	w.collaborators = newStore(opts, domain.CollaboratorSchema, nil)
	w.contacts = newStore(opts, domain.ContactSchema, nil)
	w.budgets = newStore(opts, domain.BudgetSchema, nil)
	w.scripts = newStore(opts, domain.ScriptSchema, nil)
	w.documents = newStore(opts, domain.DocumentSchema, nil)
	w.directors = newStore(opts, domain.DirectorSchema, nil)
	w.visitors = newStore(opts, domain.VisitorSchema, nil)
	w.tasks = newStore(opts, domain.TaskSchema, nil)
	w.festivals = newStore(opts, domain.FestivalSchema, func() []domain.Festival {
		return festivals.Defaults(w.opts.Now())
	})
	w.events = newStore(opts, domain.CalendarEventSchema, nil)
	w.readNotes = newStore(opts, domain.ReadNotificationSchema, nil)
	w.options = newStore(opts, domain.OptionSetSchema, nil)

	w.loaders = []loader{
		w.projects, w.collaborators, w.contacts, w.budgets, w.scripts, w.documents,
		w.directors, w.visitors, w.tasks, w.festivals, w.events, w.readNotes, w.options,
	}
	w.dependent = []projectScoped{
		w.collaborators, w.budgets, w.scripts, w.documents, w.directors, w.visitors, w.tasks,
	}
	w.scheduler = festivals.NewScheduler(func(ctx context.Context) error {
		_, err := w.RolloverFestivals(ctx)
		return err
	}).WithInitialDelay(opts.FestivalInitialDelay)
	return w
}

// Attach follows id: the workspace reloads on every change. The returned function detaches.
func (w *Workspace) Attach(id *auth.Identity) (detach func()) {
	unsubscribe := id.Subscribe(w.OnIdentity)
	if uid := id.Current(); uid != "" {
		w.OnIdentity(uid)
	}
	return unsubscribe
}

// OnIdentity loads every domain for userID, or tears the session down when userID is
// empty. Teardown completes before OnIdentity returns.
func (w *Workspace) OnIdentity(userID string) {
	if userID == "" {
		w.teardown()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.opts.LoadTimeout)
	defer cancel()
	log := logging.New(ctx, "workspace")

	w.stopBackground()
	w.mu.Lock()
	w.userID = userID
	w.mu.Unlock()

	start := time.Now()
	var g errgroup.Group
	for _, l := range w.loaders {
		g.Go(func() error { return l.Load(ctx, userID) })
	}
	if err := g.Wait(); err != nil {
		log.LogErrorf("load", "user=%s error=%v", userID, err)
	}
	if w.UserID() != userID {
		return
	}
	w.seedProjects()
	log.LogInfof("load", "user=%s projects=%d took=%s", userID, len(w.projects.List()), time.Since(start))

	if err := w.scheduler.Start(); err != nil {
		log.LogError("festival-scheduler", err)
	}
	w.connect(ctx, userID)
}

func (w *Workspace) seedProjects() {
	for _, p := range w.projects.List() {
		for _, s := range w.dependent {
			s.SeedProject(p.ID)
		}
	}
}

func (w *Workspace) teardown() {
	w.stopBackground()
	w.mu.Lock()
	w.userID = ""
	w.mu.Unlock()
	for _, l := range w.loaders {
		l.Reset()
	}
	logging.New(context.Background(), "workspace").LogInfof("teardown", "session cleared")
}

func (w *Workspace) stopBackground() {
	w.scheduler.Stop()
	w.mu.Lock()
	p := w.poller
	w.poller, w.providers = nil, nil
	w.mu.Unlock()
	if p != nil {
		p.Stop()
	}
}

func (w *Workspace) UserID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.userID
}

// Loading reports whether any domain is still loading.
func (w *Workspace) Loading() bool {
	for _, l := range w.loaders {
		if s, ok := l.(interface{ Loading() bool }); ok && s.Loading() {
			return true
		}
	}
	return false
}

func (w *Workspace) now() time.Time { return w.opts.Now().UTC() }

func normalize[T any](schema *storage.Schema[T], rec *T) {
	if schema.Normalize != nil {
		schema.Normalize(rec)
	}
}
