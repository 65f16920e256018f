package main

import (
	"github.com/rotisserie/eris"

	"github.com/openforis/whisp-go/internal/config"
	"github.com/openforis/whisp-go/internal/risk"
	"github.com/openforis/whisp-go/internal/table"
)

// riskParams converts the risk section of the config into explicit
// classification parameters.
func riskParams(rc config.RiskConfig) (risk.Params, error) {
	mode, err := risk.ParseUnitMode(rc.UnitMode)
	if err != nil {
		return risk.Params{}, err
	}

	var p risk.Params
	p.UnitMode = mode
	p.AreaColumn = rc.AreaColumn
	p.LowLabel = rc.LowLabel
	p.HighLabel = rc.HighLabel
	for i, ind := range []config.IndicatorConfig{
		rc.Treecover, rc.Commodities, rc.DisturbanceBefore, rc.DisturbanceAfter,
	} {
		p.Indicators[i] = risk.IndicatorSpec{
			Name:          ind.Name,
			InputColumns:  ind.Columns,
			Threshold:     ind.Threshold,
			SumComparison: ind.SumComparison,
		}
	}
	return p, nil
}

// loadLookup reads the lookup table named by the config (or an override
// path) and parses the canonical dataset ordering from it.
func loadLookup(lc config.LookupConfig, path string) (risk.Lookup, error) {
	if path == "" {
		path = lc.Path
	}
	if path == "" {
		return nil, eris.New("lookup: no lookup table configured (set lookup.path or --lookup)")
	}
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "lookup: read table")
	}
	return risk.ParseLookup(t, lc.NameColumn, lc.OrderColumn)
}
