package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

var ErrInvalidOption = errors.New("invalid option")

// OptionLabels returns the saved list for kind, or the built-in one when nothing is saved.
func (w *Workspace) OptionLabels(kind domain.OptionKind) (domain.OptionLabels, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown list %q", ErrInvalidOption, kind)
	}
	if set, ok := w.options.FindByID(string(kind)); ok {
		return set.Labels.Clone(), nil
	}
	return domain.DefaultOptions(kind), nil
}

// SetOption adds or relabels value. The first edit saves the built-in list with it.
func (w *Workspace) SetOption(ctx context.Context, kind domain.OptionKind, value, label string) (domain.OptionLabels, error) {
	value, label = strings.TrimSpace(value), strings.TrimSpace(label)
	if value == "" {
		return nil, fmt.Errorf("%w: value required", ErrInvalidOption)
	}
	if label == "" {
		label = value
	}
	return w.editOptions(ctx, kind, func(l domain.OptionLabels) { l[value] = label })
}

// RemoveOption drops value from the list; records already using it keep it.
func (w *Workspace) RemoveOption(ctx context.Context, kind domain.OptionKind, value string) (domain.OptionLabels, error) {
	return w.editOptions(ctx, kind, func(l domain.OptionLabels) { delete(l, value) })
}

func (w *Workspace) editOptions(ctx context.Context, kind domain.OptionKind, edit func(domain.OptionLabels)) (domain.OptionLabels, error) {
	labels, err := w.OptionLabels(kind)
	if err != nil {
		return nil, err
	}
	edit(labels)
	if _, ok := w.options.FindByID(string(kind)); ok {
		set, err := w.options.Update(ctx, string(kind), func(s *domain.OptionSet) { s.Labels = labels }, "labels")
		return set.Labels.Clone(), err
	}
	set, err := w.options.Create(ctx, domain.OptionSet{ID: string(kind), Labels: labels})
	return set.Labels.Clone(), err
}
