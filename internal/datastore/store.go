package datastore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/filmdesk/filmdesk-backend/internal/logging"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

// ErrNoSession is returned by mutators while no user is signed in.
var ErrNoSession = errors.New("no active session")

type Config[T any] struct {
	Schema *storage.Schema[T]
	// Backend is authoritative: the remote store when configured, otherwise the device store.
	Backend storage.Backend[T]
	// Migrator is nil when there is no remote store.
	Migrator *Migrator[T]
	// Defaults seeds an empty collection (and the logged-out state) when set.
	Defaults func() []T
}

// Store is the in-memory view of one domain for the signed-in user. Mutators write
// through the backend first and touch memory only after the write succeeds.
type Store[T any] struct {
	schema   *storage.Schema[T]
	backend  storage.Backend[T]
	migrator *Migrator[T]
	defaults func() []T

	mu       sync.RWMutex
	userID   string
	gen      uint64
	loading  bool
	recs     []T
	projects map[string]struct{}
}

func New[T any](cfg Config[T]) *Store[T] {
	s := &Store[T]{
		schema:   cfg.Schema,
		backend:  cfg.Backend,
		migrator: cfg.Migrator,
		defaults: cfg.Defaults,
		projects: make(map[string]struct{}),
	}
	s.recs = s.defaultRecords()
	return s
}

func (s *Store[T]) Domain() string { return s.schema.Domain }

func (s *Store[T]) defaultRecords() []T {
	if s.defaults == nil {
		return nil
	}
	return s.defaults()
}

// session returns the active user and generation, or ErrNoSession.
func (s *Store[T]) session() (string, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == "" {
		return "", 0, fmt.Errorf("%s: %w", s.schema.Domain, ErrNoSession)
	}
	return s.userID, s.gen, nil
}

// Load replaces memory with userID's records from the authoritative backend, running the
// migration first. An empty userID resets the store. Failures are logged and leave an
// empty (or default) collection; the error is also returned.
func (s *Store[T]) Load(ctx context.Context, userID string) error {
	if userID == "" {
		s.Reset()
		return nil
	}

	blank := s.defaultRecords()
	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.userID != userID {
		s.recs = blank
		s.projects = make(map[string]struct{})
	}
	s.userID = userID
	s.loading = true
	s.mu.Unlock()

	log := logging.New(ctx, "store")
	if s.migrator != nil {
		if err := s.migrator.MigrateIfNeeded(ctx, userID); err != nil {
			log.LogErrorf("migrate", "domain=%s user=%s error=%v", s.schema.Domain, userID, err)
		}
	}

	recs, err := s.backend.SelectAll(ctx, storage.Filter{UserID: userID})
	switch {
	case errors.Is(err, storage.ErrCorruptPayload):
		log.LogWarnf("load", "domain=%s user=%s corrupt payload ignored: %v", s.schema.Domain, userID, err)
		recs = s.defaultRecords()
	case err != nil:
		log.LogErrorf("load", "domain=%s user=%s error=%v", s.schema.Domain, userID, err)
		recs = s.defaultRecords()
	case len(recs) == 0 && s.defaults != nil:
		recs = s.defaults()
		if ierr := s.backend.Insert(ctx, userID, recs); ierr != nil {
			log.LogErrorf("seed", "domain=%s user=%s error=%v", s.schema.Domain, userID, ierr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		log.LogDebugf("load", "domain=%s user=%s stale result discarded", s.schema.Domain, userID)
		return err
	}
	s.recs = recs
	s.projects = make(map[string]struct{})
	if s.schema.ProjectScoped() {
		for i := range recs {
			s.projects[s.schema.ProjectOf(&recs[i])] = struct{}{}
		}
	}
	s.loading = false
	log.LogDebugf("load", "domain=%s user=%s records=%d", s.schema.Domain, userID, len(recs))
	return err
}

// Reset drops the session and clears memory back to the default collection.
func (s *Store[T]) Reset() {
	recs := s.defaultRecords()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.userID = ""
	s.loading = false
	s.recs = recs
	s.projects = make(map[string]struct{})
}

// Create assigns an id when missing and persists rec.
func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	uid, gen, err := s.session()
	if err != nil {
		return zero, err
	}
	if id := s.schema.ID(&rec); *id == "" {
		*id = uuid.NewString()
	}
	if err := s.backend.Insert(ctx, uid, []T{rec}); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.recs = append(s.recs, rec)
		if pid := s.schema.ProjectOf(&rec); pid != "" {
			s.projects[pid] = struct{}{}
		}
	}
	return rec, nil
}

// Update applies apply to a copy of record id and writes the named fields (every column
// when none are named). The in-memory record is patched only if present; a missing id
// is not an error. A full-record write needs the record in memory, otherwise the
// backend row would be overwritten with zero values, so it is skipped.
func (s *Store[T]) Update(ctx context.Context, id string, apply func(*T), fields ...string) (T, error) {
	var zero T
	uid, gen, err := s.session()
	if err != nil {
		return zero, err
	}
	next, found := s.FindByID(id)
	if len(fields) == 0 {
		if !found {
			logging.New(ctx, "store").LogDebugf("update", "domain=%s id=%s not loaded, full write skipped", s.schema.Domain, id)
			return zero, nil
		}
		fields = s.schema.ColumnNames()
	}
	if err := s.schema.CheckFields(fields); err != nil {
		return zero, err
	}

	*s.schema.ID(&next) = id
	apply(&next)
	*s.schema.ID(&next) = id

	if err := s.backend.Update(ctx, uid, id, &next, fields); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return next, nil
	}
	for i := range s.recs {
		if s.schema.IDOf(&s.recs[i]) == id {
			if err := s.schema.CopyFields(&s.recs[i], &next, fields); err != nil {
				return zero, err
			}
			return s.recs[i], nil
		}
	}
	return next, nil
}

// Upsert keeps at most one record per project: the existing one is overwritten in place,
// otherwise rec is created.
func (s *Store[T]) Upsert(ctx context.Context, projectID string, rec T) (T, error) {
	if !s.schema.ProjectScoped() {
		return rec, fmt.Errorf("%s: upsert needs a project-scoped domain", s.schema.Domain)
	}
	*s.schema.Project(&rec) = projectID
	if cur := s.ListByProject(projectID); len(cur) > 0 {
		existing := s.schema.IDOf(&cur[0])
		return s.Update(ctx, existing, func(r *T) { *r = rec })
	}
	return s.Create(ctx, rec)
}

// Remove deletes id; an unknown id is a no-op.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	uid, gen, err := s.session()
	if err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, storage.Filter{UserID: uid, ID: id}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.recs = s.without(func(r *T) bool { return s.schema.IDOf(r) == id })
	}
	return nil
}

// SeedProject ensures an (empty) entry for projectID.
func (s *Store[T]) SeedProject(projectID string) {
	if !s.schema.ProjectScoped() || projectID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[projectID] = struct{}{}
}

// DropProject deletes every record of projectID and removes its entry.
func (s *Store[T]) DropProject(ctx context.Context, projectID string) error {
	if !s.schema.ProjectScoped() {
		return nil
	}
	uid, gen, err := s.session()
	if err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, storage.Filter{UserID: uid, ProjectID: projectID}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.recs = s.without(func(r *T) bool { return s.schema.ProjectOf(r) == projectID })
		delete(s.projects, projectID)
	}
	return nil
}

// without must be called with mu held.
func (s *Store[T]) without(drop func(*T) bool) []T {
	out := make([]T, 0, len(s.recs))
	for i := range s.recs {
		if !drop(&s.recs[i]) {
			out = append(out, s.recs[i])
		}
	}
	return out
}

// List returns a copy of the collection in the domain's default order, duplicates by id
// dropped.
func (s *Store[T]) List() []T {
	return s.Filter(nil)
}

func (s *Store[T]) ListByProject(projectID string) []T {
	return s.Filter(func(r *T) bool { return s.schema.ProjectOf(r) == projectID })
}

func (s *Store[T]) Filter(pred func(*T) bool) []T {
	s.mu.RLock()
	seen := make(map[string]struct{}, len(s.recs))
	out := make([]T, 0, len(s.recs))
	for i := range s.recs {
		id := s.schema.IDOf(&s.recs[i])
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if pred == nil || pred(&s.recs[i]) {
			out = append(out, s.recs[i])
		}
	}
	s.mu.RUnlock()

	if s.schema.Less != nil {
		sort.SliceStable(out, func(i, j int) bool { return s.schema.Less(&out[i], &out[j]) })
	}
	return out
}

func (s *Store[T]) Find(pred func(*T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.recs {
		if pred(&s.recs[i]) {
			return s.recs[i], true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) FindByID(id string) (T, bool) {
	return s.Find(func(r *T) bool { return s.schema.IDOf(r) == id })
}

// Projects lists project ids holding an entry, sorted.
func (s *Store[T]) Projects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.projects))
	for pid := range s.projects {
		out = append(out, pid)
	}
	sort.Strings(out)
	return out
}

func (s *Store[T]) HasProject(projectID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.projects[projectID]
	return ok
}

func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store[T]) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Backend exposes the authoritative backend for cross-owner reads.
func (s *Store[T]) Backend() storage.Backend[T] { return s.backend }
