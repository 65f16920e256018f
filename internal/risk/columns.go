package risk

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/openforis/whisp-go/internal/table"
)

// SelectYearsInRange filters names to those whose last four characters
// parse as a year within [minYear, maxYear]. Used to pick per-year
// disturbance columns (e.g. "GFC_loss_2021") out of a wide export.
func SelectYearsInRange(names []string, minYear, maxYear int) []string {
	var out []string
	for _, name := range names {
		if len(name) < 4 {
			continue
		}
		year, err := strconv.Atoi(name[len(name)-4:])
		if err != nil {
			continue
		}
		if year >= minYear && year <= maxYear {
			out = append(out, name)
		}
	}
	return out
}

// TruncateNames shortens each name to at most maxLen bytes. Shapefile DBF
// field names are capped at 10 characters, so exports need this.
func TruncateNames(names []string, maxLen int) []string {
	out := make([]string, len(names))
	for i, name := range names {
		if len(name) > maxLen {
			name = name[:maxLen]
		}
		out[i] = name
	}
	return out
}

// LookupFromColumns builds a two-column lookup table from joinCol and
// lookupCol of t, removing duplicate pairs while keeping first-seen row
// order. Non-empty joinName/lookupName rename the output columns.
func LookupFromColumns(t *table.Table, joinCol, lookupCol, joinName, lookupName string) (*table.Table, error) {
	join, err := t.Column(joinCol)
	if err != nil {
		return nil, eris.Wrap(err, "risk: lookup join column")
	}
	lookup, err := t.Column(lookupCol)
	if err != nil {
		return nil, eris.Wrap(err, "risk: lookup value column")
	}

	type pair struct{ a, b string }
	seen := make(map[pair]struct{}, len(join))
	var outJoin, outLookup []string
	for i := range join {
		p := pair{join[i], lookup[i]}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		outJoin = append(outJoin, p.a)
		outLookup = append(outLookup, p.b)
	}

	if joinName == "" {
		joinName = joinCol
	}
	if lookupName == "" {
		lookupName = lookupCol
	}

	out := table.New(len(outJoin))
	if err := out.SetColumn(joinName, outJoin); err != nil {
		return nil, eris.Wrap(err, "risk: lookup table")
	}
	if err := out.SetColumn(lookupName, outLookup); err != nil {
		return nil, eris.Wrap(err, "risk: lookup table")
	}
	return out, nil
}
