package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// insertChunk bounds rows per INSERT statement, keeping placeholders under the protocol limit.
const insertChunk = 500

// SQLBackend stores one row per record in a table named after the domain.
// Every table carries id, user_id and a seq column for insertion order; project-scoped
// tables add project_id.
type SQLBackend[T any] struct {
	db     *sql.DB
	schema *Schema[T]
}

func NewSQLBackend[T any](db *sql.DB, schema *Schema[T]) *SQLBackend[T] {
	return &SQLBackend[T]{db: db, schema: schema}
}

var _ Backend[struct{}] = (*SQLBackend[struct{}])(nil)

func (b *SQLBackend[T]) selectList() string {
	cols := []string{"id"}
	if b.schema.ProjectScoped() {
		cols = append(cols, "project_id")
	}
	return strings.Join(append(cols, b.schema.ColumnNames()...), ", ")
}

func (b *SQLBackend[T]) dest(rec *T) []any {
	out := []any{b.schema.ID(rec)}
	if b.schema.ProjectScoped() {
		out = append(out, b.schema.Project(rec))
	}
	for _, c := range b.schema.Columns {
		out = append(out, c.Ref(rec))
	}
	return out
}

func (b *SQLBackend[T]) where(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(col, v string) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.UserID != "" {
		add("user_id", f.UserID)
	}
	if f.ProjectID != "" && b.schema.ProjectScoped() {
		add("project_id", f.ProjectID)
	}
	if f.ID != "" {
		add("id", f.ID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (b *SQLBackend[T]) SelectAll(ctx context.Context, f Filter) ([]T, error) {
	where, args := b.where(f)
	q := "SELECT " + b.selectList() + " FROM " + b.schema.Domain + where + " ORDER BY seq"
	rows, err := b.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: select: %w", b.schema.Domain, err)
	}
	defer rows.Close()

	out := make([]T, 0, 16)
	for rows.Next() {
		var rec T
		if err := rows.Scan(b.dest(&rec)...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", b.schema.Domain, err)
		}
		b.schema.normalize(&rec)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", b.schema.Domain, err)
	}
	return out, nil
}

func (b *SQLBackend[T]) Exists(ctx context.Context, f Filter) (bool, error) {
	where, args := b.where(f)
	q := "SELECT EXISTS (SELECT 1 FROM " + b.schema.Domain + where + ")"
	var ok bool
	if err := b.db.QueryRowContext(ctx, q, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("%s: exists: %w", b.schema.Domain, err)
	}
	return ok, nil
}

// Insert writes recs in a single transaction; either every row lands or none does.
func (b *SQLBackend[T]) Insert(ctx context.Context, userID string, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	if userID == "" {
		return fmt.Errorf("%s: user id required", b.schema.Domain)
	}

	cols := []string{"id", "user_id"}
	if b.schema.ProjectScoped() {
		cols = append(cols, "project_id")
	}
	cols = append(cols, b.schema.ColumnNames()...)
	head := "INSERT INTO " + b.schema.Domain + " (" + strings.Join(cols, ", ") + ") VALUES "

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", b.schema.Domain, err)
	}
	defer tx.Rollback() //nolint:errcheck

	for start := 0; start < len(recs); start += insertChunk {
		end := min(start+insertChunk, len(recs))
		var (
			tuples []string
			args   []any
		)
		for i := start; i < end; i++ {
			rec := &recs[i]
			row := []any{b.schema.ID(rec), userID}
			if b.schema.ProjectScoped() {
				row = append(row, b.schema.Project(rec))
			}
			for _, c := range b.schema.Columns {
				row = append(row, c.Ref(rec))
			}
			ph := make([]string, len(row))
			for j := range row {
				ph[j] = fmt.Sprintf("$%d", len(args)+j+1)
			}
			args = append(args, row...)
			tuples = append(tuples, "("+strings.Join(ph, ", ")+")")
		}
		if _, err := tx.ExecContext(ctx, head+strings.Join(tuples, ", "), args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%s: insert: %w", b.schema.Domain, ErrDuplicate)
			}
			return fmt.Errorf("%s: insert: %w", b.schema.Domain, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", b.schema.Domain, err)
	}
	return nil
}

func (b *SQLBackend[T]) Update(ctx context.Context, userID, id string, rec *T, fields []string) error {
	if err := b.schema.CheckFields(fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, len(fields))
	args := make([]any, 0, len(fields)+2)
	for i, f := range fields {
		c, _ := b.schema.column(f)
		args = append(args, c.Ref(rec))
		sets[i] = fmt.Sprintf("%s = $%d", f, i+1)
	}
	args = append(args, userID, id)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE user_id = $%d AND id = $%d",
		b.schema.Domain, strings.Join(sets, ", "), len(fields)+1, len(fields)+2)
	if _, err := b.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("%s: update %s: %w", b.schema.Domain, id, err)
	}
	return nil
}

func (b *SQLBackend[T]) Delete(ctx context.Context, f Filter) error {
	if f.UserID == "" || (f.ID == "" && f.ProjectID == "") {
		return fmt.Errorf("%s: delete needs a user and an id or project id", b.schema.Domain)
	}
	where, args := b.where(f)
	if _, err := b.db.ExecContext(ctx, "DELETE FROM "+b.schema.Domain+where, args...); err != nil {
		return fmt.Errorf("%s: delete: %w", b.schema.Domain, err)
	}
	return nil
}

func (b *SQLBackend[T]) Locate(ctx context.Context, id string) (string, *T, error) {
	q := "SELECT user_id, " + b.selectList() + " FROM " + b.schema.Domain + " WHERE id = $1"
	var (
		owner string
		rec   T
	)
	err := b.db.QueryRowContext(ctx, q, id).Scan(append([]any{&owner}, b.dest(&rec)...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: locate %s: %w", b.schema.Domain, id, err)
	}
	b.schema.normalize(&rec)
	return owner, &rec, nil
}

// isUniqueViolation recognises 23505 from either postgres driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
