// Package risk implements the EUDR deforestation-risk classification over
// per-plot metric tables: binary indicator derivation, the fixed
// four-indicator decision tree, and canonical column ordering for export.
package risk

import (
	"github.com/rotisserie/eris"

	"github.com/openforis/whisp-go/internal/table"
)

// RiskColumn is the name of the derived classification column.
const RiskColumn = "EUDR_risk"

// The three possible values of RiskColumn.
const (
	RiskLow      = "low"
	RiskMoreInfo = "more_info_needed"
	RiskHigh     = "high"
)

// ErrThresholdRange is returned when an indicator threshold falls outside
// [0, 100].
var ErrThresholdRange = eris.New("risk: threshold must be between 0 and 100")

// Params configures a classification run. All four indicators are
// required; there are no hidden process-wide defaults.
type Params struct {
	// Indicators in decision-tree order: treecover, commodities,
	// disturbance before 2020, disturbance after 2020.
	Indicators [4]IndicatorSpec
	Options
}

// checkRange enforces the percent domain of a threshold.
func checkRange(v float64) error {
	if v < 0 || v > 100 {
		return eris.Wrapf(ErrThresholdRange, "got %v", v)
	}
	return nil
}

// Classify returns a copy of t with the four indicator columns and the
// EUDR_risk column appended, in that order. The decision tree, evaluated
// per row in this exact precedence:
//
//  1. indicator 1 low, or indicator 2 high, or indicator 3 high → low
//  2. else indicator 4 low → more_info_needed
//  3. else → high
//
// All thresholds are validated against [0, 100] before any column is
// added, so a range error never leaves a partially classified table.
// Classify is a pure function of its arguments.
func Classify(t *table.Table, p Params) (*table.Table, error) {
	p.Options = p.Options.withDefaults()

	for i, ind := range p.Indicators {
		if err := checkRange(ind.Threshold); err != nil {
			return nil, eris.Wrapf(err, "risk: indicator %d (%s)", i+1, ind.Name)
		}
	}

	out := t
	for i, ind := range p.Indicators {
		next, err := AddIndicator(out, ind, p.Options)
		if err != nil {
			return nil, eris.Wrapf(err, "risk: derive indicator %d", i+1)
		}
		out = next
	}

	labels := make([][]string, 4)
	for i, ind := range p.Indicators {
		col, err := out.Column(ind.Name)
		if err != nil {
			return nil, eris.Wrap(err, "risk: read indicator column")
		}
		labels[i] = col
	}

	riskCol := make([]string, out.NumRows())
	for row := range riskCol {
		switch {
		case labels[0][row] == p.LowLabel ||
			labels[1][row] == p.HighLabel ||
			labels[2][row] == p.HighLabel:
			riskCol[row] = RiskLow
		case labels[3][row] == p.LowLabel:
			riskCol[row] = RiskMoreInfo
		default:
			riskCol[row] = RiskHigh
		}
	}

	if err := out.SetColumn(RiskColumn, riskCol); err != nil {
		return nil, eris.Wrap(err, "risk: set risk column")
	}
	return out, nil
}

// Distribution counts the risk labels in a classified table.
func Distribution(t *table.Table) (low, moreInfo, high int, err error) {
	col, err := t.Column(RiskColumn)
	if err != nil {
		return 0, 0, 0, eris.Wrap(err, "risk: distribution")
	}
	for _, v := range col {
		switch v {
		case RiskLow:
			low++
		case RiskMoreInfo:
			moreInfo++
		case RiskHigh:
			high++
		}
	}
	return low, moreInfo, high, nil
}
