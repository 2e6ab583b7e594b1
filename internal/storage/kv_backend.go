package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/filmdesk/filmdesk-backend/internal/logging"
)

// KVBackend stores a domain's whole collection for a user as one JSON value under
// ScopedKey(domain, userID). Project-scoped domains keep the nested project-id layout.
type KVBackend[T any] struct {
	kv     KV
	schema *Schema[T]
}

func NewKVBackend[T any](kv KV, schema *Schema[T]) *KVBackend[T] {
	return &KVBackend[T]{kv: kv, schema: schema}
}

var _ Backend[struct{}] = (*KVBackend[struct{}])(nil)

func (b *KVBackend[T]) SelectAll(ctx context.Context, f Filter) ([]T, error) {
	if f.UserID == "" && f.ID != "" {
		_, rec, err := b.Locate(ctx, f.ID)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []T{*rec}, nil
	}
	recs, err := b.read(ctx, f.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for i := range recs {
		if f.matches(true, b.schema.IDOf(&recs[i]), b.schema.ProjectOf(&recs[i])) {
			out = append(out, recs[i])
		}
	}
	return out, nil
}

func (b *KVBackend[T]) Exists(ctx context.Context, f Filter) (bool, error) {
	recs, err := b.SelectAll(ctx, f)
	if err != nil {
		return false, err
	}
	return len(recs) > 0, nil
}

func (b *KVBackend[T]) Insert(ctx context.Context, userID string, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	cur, err := b.current(ctx, userID)
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(cur)+len(recs))
	for i := range cur {
		seen[b.schema.IDOf(&cur[i])] = struct{}{}
	}
	for i := range recs {
		id := b.schema.IDOf(&recs[i])
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%s %s: %w", b.schema.Domain, id, ErrDuplicate)
		}
		seen[id] = struct{}{}
	}
	return b.write(ctx, userID, append(cur, recs...))
}

func (b *KVBackend[T]) Update(ctx context.Context, userID, id string, rec *T, fields []string) error {
	if err := b.schema.CheckFields(fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	cur, err := b.current(ctx, userID)
	if err != nil {
		return err
	}
	for i := range cur {
		if b.schema.IDOf(&cur[i]) != id {
			continue
		}
		if err := b.schema.CopyFields(&cur[i], rec, fields); err != nil {
			return err
		}
		return b.write(ctx, userID, cur)
	}
	return nil
}

func (b *KVBackend[T]) Delete(ctx context.Context, f Filter) error {
	if f.ID == "" && f.ProjectID == "" {
		return fmt.Errorf("%s: delete needs an id or project id", b.schema.Domain)
	}
	cur, err := b.current(ctx, f.UserID)
	if err != nil {
		return err
	}
	kept := cur[:0]
	for i := range cur {
		if f.matches(true, b.schema.IDOf(&cur[i]), b.schema.ProjectOf(&cur[i])) {
			continue
		}
		kept = append(kept, cur[i])
	}
	if len(kept) == len(cur) {
		return nil
	}
	return b.write(ctx, f.UserID, kept)
}

func (b *KVBackend[T]) Locate(ctx context.Context, id string) (string, *T, error) {
	keys, err := b.kv.Keys(ctx, b.schema.Domain+keySep)
	if err != nil {
		return "", nil, fmt.Errorf("%s: scan keys: %w", b.schema.Domain, err)
	}
	sort.Strings(keys)
	for _, key := range keys {
		userID, ok := UserFromKey(b.schema.Domain, key)
		if !ok {
			continue
		}
		recs, err := b.read(ctx, userID)
		if err != nil {
			// one unreadable owner must not hide the others
			continue
		}
		for i := range recs {
			if b.schema.IDOf(&recs[i]) == id {
				rec := recs[i]
				return userID, &rec, nil
			}
		}
	}
	return "", nil, ErrNotFound
}

func (b *KVBackend[T]) read(ctx context.Context, userID string) ([]T, error) {
	key := ScopedKey(b.schema.Domain, userID)
	raw, ok, err := b.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: get %s: %w", b.schema.Domain, key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	recs, err := b.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w: %v", b.schema.Domain, key, ErrCorruptPayload, err)
	}
	for i := range recs {
		b.schema.normalize(&recs[i])
	}
	return recs, nil
}

// current reads userID's collection ahead of a write. A value that no longer decodes is
// moved to CorruptKey and the write starts from an empty collection.
func (b *KVBackend[T]) current(ctx context.Context, userID string) ([]T, error) {
	recs, err := b.read(ctx, userID)
	if !errors.Is(err, ErrCorruptPayload) {
		return recs, err
	}

	key := ScopedKey(b.schema.Domain, userID)
	raw, _, gerr := b.kv.Get(ctx, key)
	if gerr != nil {
		return nil, fmt.Errorf("%s: get %s: %w", b.schema.Domain, key, gerr)
	}
	if serr := b.kv.Set(ctx, CorruptKey(key), raw); serr != nil {
		return nil, fmt.Errorf("%s: quarantine %s: %w", b.schema.Domain, key, serr)
	}
	if derr := b.kv.Delete(ctx, key); derr != nil {
		return nil, fmt.Errorf("%s: quarantine %s: %w", b.schema.Domain, key, derr)
	}
	logging.New(ctx, "kv-backend").LogWarnf("quarantine", "domain=%s key=%s moved_to=%s error=%v",
		b.schema.Domain, key, CorruptKey(key), err)
	return nil, nil
}

func (b *KVBackend[T]) write(ctx context.Context, userID string, recs []T) error {
	raw, err := b.encode(recs)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", b.schema.Domain, err)
	}
	key := ScopedKey(b.schema.Domain, userID)
	if err := b.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%s: set %s: %w", b.schema.Domain, key, err)
	}
	return nil
}

func (b *KVBackend[T]) decode(raw string) ([]T, error) {
	switch b.schema.Layout {
	case LayoutByProject:
		var groups map[string][]T
		if err := json.Unmarshal([]byte(raw), &groups); err != nil {
			return nil, err
		}
		var out []T
		for _, pid := range sortedKeys(groups) {
			for _, rec := range groups[pid] {
				if p := b.schema.Project(&rec); *p == "" {
					*p = pid
				}
				out = append(out, rec)
			}
		}
		return out, nil
	case LayoutOnePerProject:
		var groups map[string]T
		if err := json.Unmarshal([]byte(raw), &groups); err != nil {
			return nil, err
		}
		out := make([]T, 0, len(groups))
		for _, pid := range sortedKeys(groups) {
			rec := groups[pid]
			if p := b.schema.Project(&rec); *p == "" {
				*p = pid
			}
			out = append(out, rec)
		}
		return out, nil
	default:
		var out []T
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (b *KVBackend[T]) encode(recs []T) (string, error) {
	var v any
	switch b.schema.Layout {
	case LayoutByProject:
		groups := make(map[string][]T)
		for i := range recs {
			pid := b.schema.ProjectOf(&recs[i])
			groups[pid] = append(groups[pid], recs[i])
		}
		v = groups
	case LayoutOnePerProject:
		groups := make(map[string]T)
		for i := range recs {
			groups[b.schema.ProjectOf(&recs[i])] = recs[i]
		}
		v = groups
	default:
		if recs == nil {
			recs = []T{}
		}
		v = recs
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
