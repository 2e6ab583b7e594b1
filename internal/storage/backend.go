package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicate      = errors.New("record already exists")
	ErrCorruptPayload = errors.New("corrupt stored payload")
	ErrUnknownField   = errors.New("unknown field")
)

// Filter scopes a backend call. UserID is required except for Locate.
type Filter struct {
	UserID    string
	ProjectID string
	ID        string
}

// Backend persists one domain's records. Two implementations are substitutable:
// KVBackend (whole collection per user under a scoped key) and SQLBackend (row per record).
type Backend[T any] interface {
	SelectAll(ctx context.Context, f Filter) ([]T, error)
	// Exists reports whether at least one record matches f.
	Exists(ctx context.Context, f Filter) (bool, error)
	Insert(ctx context.Context, userID string, recs []T) error
	// Update writes only the named fields of rec to the record id. Missing ids are a no-op.
	Update(ctx context.Context, userID, id string, rec *T, fields []string) error
	// Delete removes records matching f (by ID or by ProjectID). Nothing matching is a no-op.
	Delete(ctx context.Context, f Filter) error
	// Locate finds a record by id regardless of owner.
	Locate(ctx context.Context, id string) (owner string, rec *T, err error)
}

// Layout is the shape a domain's collection takes in the local key/value store.
type Layout int

const (
	// LayoutList stores a JSON array.
	LayoutList Layout = iota
	// LayoutByProject stores an object of project id -> array.
	LayoutByProject
	// LayoutOnePerProject stores an object of project id -> record.
	LayoutOnePerProject
)

// Column maps one persisted field. Ref must return a pointer into rec usable both as a
// database/sql argument and scan destination.
type Column[T any] struct {
	Name string
	Ref  func(rec *T) any
}

// Schema is the table-driven codec for one domain.
type Schema[T any] struct {
	Domain string
	Layout Layout
	ID     func(rec *T) *string
	// Project is nil for user-scoped domains.
	Project func(rec *T) *string
	Columns []Column[T]
	// Normalize fills defaults and upgrades legacy values after decoding.
	Normalize func(rec *T)
	// Less is the default read order; nil keeps insertion order.
	Less func(a, b *T) bool
}

func (s *Schema[T]) ProjectScoped() bool { return s.Project != nil }

func (s *Schema[T]) IDOf(rec *T) string { return *s.ID(rec) }

func (s *Schema[T]) ProjectOf(rec *T) string {
	if s.Project == nil {
		return ""
	}
	return *s.Project(rec)
}

func (s *Schema[T]) column(name string) (Column[T], bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column[T]{}, false
}

// CheckFields rejects names that are not columns of the schema.
func (s *Schema[T]) CheckFields(fields []string) error {
	for _, f := range fields {
		if _, ok := s.column(f); !ok {
			return fmt.Errorf("%s.%s: %w", s.Domain, f, ErrUnknownField)
		}
	}
	return nil
}

// CopyFields copies the named columns from src into dst.
func (s *Schema[T]) CopyFields(dst, src *T, fields []string) error {
	for _, f := range fields {
		c, ok := s.column(f)
		if !ok {
			return fmt.Errorf("%s.%s: %w", s.Domain, f, ErrUnknownField)
		}
		reflect.ValueOf(c.Ref(dst)).Elem().Set(reflect.ValueOf(c.Ref(src)).Elem())
	}
	return nil
}

// ColumnNames returns every column name in declaration order.
func (s *Schema[T]) ColumnNames() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

func (s *Schema[T]) normalize(rec *T) {
	if s.Normalize != nil {
		s.Normalize(rec)
	}
}

func (f Filter) matches(userOK bool, id, projectID string) bool {
	if !userOK {
		return false
	}
	if f.ID != "" && f.ID != id {
		return false
	}
	if f.ProjectID != "" && f.ProjectID != projectID {
		return false
	}
	return true
}
