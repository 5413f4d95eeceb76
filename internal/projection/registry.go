package projection

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/caasets/internal/model"
)

// ColumnSpec describes one property column of the sequential dataset.
type ColumnSpec struct {
	PropertyID int64
	Name       string // output header, NFC-normalized
	DataType   model.DataType
	Slice      string // name of the slice CTE feeding the column
}

// Registry is the ordered set of property columns of one sequential
// dataset. Every header is distinct from the fixed sequential columns and
// from every other property header.
type Registry struct {
	specs []ColumnSpec
}

// NewRegistry orders props by id and assigns each a column. A display name
// that collides with a fixed column or an earlier property is disambiguated
// as "<display name>_<id>" and logged as a warning.
func NewRegistry(props []model.CodingProperty, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	sorted := slices.Clone(props)
	slices.SortFunc(sorted, func(a, b model.CodingProperty) int { return cmp.Compare(a.ID, b.ID) })
	sorted = slices.CompactFunc(sorted, func(a, b model.CodingProperty) bool { return a.ID == b.ID })

	used := make(map[string]bool, len(sequentialHeadColumns)+len(sequentialTailColumns)+len(sorted))
	for _, name := range sequentialHeadColumns {
		used[name] = true
	}
	for _, name := range sequentialTailColumns {
		used[name] = true
	}

	r := &Registry{specs: make([]ColumnSpec, 0, len(sorted))}
	for _, p := range sorted {
		name := model.CanonicalName(p.DisplayName)
		if used[name] {
			renamed := fmt.Sprintf("%s_%d", name, p.ID)
			for used[renamed] {
				renamed = fmt.Sprintf("%s_%d", renamed, p.ID)
			}
			logger.Warn("duplicate column name; disambiguating with property id",
				"property_id", p.ID, "display_name", name, "column", renamed)
			name = renamed
		}
		used[name] = true
		r.specs = append(r.specs, ColumnSpec{
			PropertyID: p.ID,
			Name:       name,
			DataType:   p.DataType,
			Slice:      fmt.Sprintf("slice_%d", p.ID),
		})
	}
	return r
}

// Specs returns the columns in output order.
func (r *Registry) Specs() []ColumnSpec {
	return slices.Clone(r.specs)
}

// Names returns the property headers in output order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.specs))
	for i, s := range r.specs {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of property columns.
func (r *Registry) Len() int {
	return len(r.specs)
}
