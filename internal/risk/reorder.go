package risk

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/openforis/whisp-go/internal/table"
)

// LookupEntry is one row of a dataset lookup table: a dataset (column)
// name and its sort position in the canonical export order.
type LookupEntry struct {
	Name  string
	Order float64
}

// Lookup is the canonical dataset ordering parsed from a lookup table.
type Lookup []LookupEntry

// ParseLookup extracts a Lookup from a table holding a dataset-name
// column and a numeric order column.
func ParseLookup(t *table.Table, nameCol, orderCol string) (Lookup, error) {
	names, err := t.Column(nameCol)
	if err != nil {
		return nil, eris.Wrap(err, "risk: lookup name column")
	}
	orders, err := t.Floats(orderCol)
	if err != nil {
		return nil, eris.Wrap(err, "risk: lookup order column")
	}

	lookup := make(Lookup, len(names))
	for i := range names {
		lookup[i] = LookupEntry{Name: names[i], Order: orders[i]}
	}
	return lookup, nil
}

// OrderedNames returns the dataset names sorted ascending by order.
// The sort is stable: entries with equal order keep their lookup-table
// row order, so exports are reproducible.
func (l Lookup) OrderedNames() []string {
	sorted := make(Lookup, len(l))
	copy(sorted, l)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	names := make([]string, len(sorted))
	for i, e := range sorted {
		names[i] = e.Name
	}
	return names
}

// ColumnOrder returns the full canonical column list: the caller's prefix
// columns (plot id, area, country and the like) followed by the ordered
// dataset names.
func (l Lookup) ColumnOrder(prefix []string) []string {
	out := make([]string, 0, len(prefix)+len(l))
	out = append(out, prefix...)
	out = append(out, l.OrderedNames()...)
	return out
}

// ReorderByLookup reindexes t's columns into the canonical order defined
// by the lookup, prefixed by prefix. Canonical columns missing from t
// come back empty; columns of t not in the canonical list are dropped —
// the result's column set always equals the canonical list, never the
// union.
func ReorderByLookup(t *table.Table, l Lookup, prefix []string) *table.Table {
	return t.Reindex(l.ColumnOrder(prefix))
}
