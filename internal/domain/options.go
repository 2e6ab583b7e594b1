package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OptionKind names a user-editable list of select options.
type OptionKind string

const (
	OptionCategories             OptionKind = "categories"
	OptionSubcategories          OptionKind = "subcategories"
	OptionStatuses               OptionKind = "statuses"
	OptionCollaboratorCategories OptionKind = "collaborator_categories"
)

var OptionKinds = []OptionKind{
	OptionCategories, OptionSubcategories, OptionStatuses, OptionCollaboratorCategories,
}

func (k OptionKind) Valid() bool {
	for _, v := range OptionKinds {
		if v == k {
			return true
		}
	}
	return false
}

// OptionLabels maps an option value to its display label. Stored as a JSONB column.
type OptionLabels map[string]string

func (l OptionLabels) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *OptionLabels) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("option labels: unsupported type %T", src)
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("option labels: %w", err)
	}
	*l = out
	return nil
}

func (l OptionLabels) Clone() OptionLabels {
	out := make(OptionLabels, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// OptionSet is one saved list; its ID is the OptionKind. A saved list replaces the
// defaults entirely.
type OptionSet struct {
	ID     string       `json:"id"`
	Labels OptionLabels `json:"labels"`
}

// DefaultOptions returns a fresh copy of the built-in list for kind.
func DefaultOptions(kind OptionKind) OptionLabels {
	switch kind {
	case OptionCategories:
		return OptionLabels{
			string(CategoryOriginals):     "Originals",
			string(CategoryCoProductions): "Co-productions",
			string(CategoryCommissions):   "Commissions",
		}
	case OptionSubcategories:
		return OptionLabels{
			string(SubcategoryFeatureFilm): "Feature film",
			string(SubcategoryDocumentary): "Documentary",
			string(SubcategoryAudiovisual): "Audiovisual",
			string(SubcategoryTVSeries):    "TV series",
			string(SubcategoryShortFilm):   "Short film",
			string(SubcategoryCommercial):  "Commercial",
		}
	case OptionStatuses:
		return OptionLabels{
			string(StatusPreProduction):  "Pre-production",
			string(StatusProduction):     "Production",
			string(StatusPostProduction): "Post-production",
			string(StatusCompleted):      "Completed",
		}
	case OptionCollaboratorCategories:
		return OptionLabels{
			string(CollabCoproducers):  "Co-producers",
			string(CollabDistributors): "Distributors",
			string(CollabStudios):      "Studios",
			string(CollabEquipment):    "Equipment",
			string(CollabLocations):    "Locations",
		}
	}
	return OptionLabels{}
}
