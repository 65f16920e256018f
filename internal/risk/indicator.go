package risk

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/openforis/whisp-go/internal/table"
)

// UnitMode selects how metric values are compared to thresholds: directly
// (percent) or normalized against the plot area first (ha).
type UnitMode string

const (
	UnitPercent UnitMode = "percent"
	UnitHa      UnitMode = "ha"
)

// ParseUnitMode validates a unit mode string.
func ParseUnitMode(s string) (UnitMode, error) {
	switch UnitMode(s) {
	case UnitPercent, UnitHa:
		return UnitMode(s), nil
	default:
		return "", eris.Errorf("risk: unknown unit mode %q (want %q or %q)", s, UnitPercent, UnitHa)
	}
}

// IndicatorSpec describes one binary indicator derived from metric columns.
type IndicatorSpec struct {
	// Name of the indicator column to add.
	Name string
	// InputColumns are the metric columns compared against Threshold.
	InputColumns []string
	// Threshold in percent. Strictly-greater comparison.
	Threshold float64
	// SumComparison compares the row-wise sum of InputColumns against
	// Threshold instead of each column individually.
	SumComparison bool
}

// Options carries the unit handling and label names shared by all
// indicator derivations in a run.
type Options struct {
	UnitMode   UnitMode
	AreaColumn string // required in ha mode
	LowLabel   string // default "no"
	HighLabel  string // default "yes"
}

func (o Options) withDefaults() Options {
	if o.UnitMode == "" {
		o.UnitMode = UnitPercent
	}
	if o.LowLabel == "" {
		o.LowLabel = "no"
	}
	if o.HighLabel == "" {
		o.HighLabel = "yes"
	}
	return o
}

// AddIndicator returns a copy of t with spec.Name added as a binary label
// column. Every row starts at the low label; a row is upgraded to the high
// label when the row-wise sum (SumComparison) or any single input column
// strictly exceeds the threshold. In ha mode each value is first converted
// to a percentage of the area column and clamped to [0, 100].
//
// Column presence is validated up front; on error the input table is
// untouched. Threshold range checking is the caller's responsibility
// (see Classify). A zero or near-zero area in ha mode produces a 100%
// reading after clamping; guarding against degenerate plot geometry is
// the caller's job.
func AddIndicator(t *table.Table, spec IndicatorSpec, opts Options) (*table.Table, error) {
	opts = opts.withDefaults()

	if spec.Name == "" {
		return nil, eris.New("risk: indicator name must not be empty")
	}
	if spec.Name == RiskColumn {
		return nil, eris.Errorf("risk: indicator name %q is reserved", RiskColumn)
	}
	if len(spec.InputColumns) == 0 {
		return nil, eris.Errorf("risk: indicator %q has no input columns", spec.Name)
	}
	if opts.LowLabel == opts.HighLabel {
		return nil, eris.Errorf("risk: low and high labels are both %q", opts.LowLabel)
	}
	for _, col := range spec.InputColumns {
		if !t.Has(col) {
			return nil, eris.Errorf("risk: indicator %q: input column %q not in table", spec.Name, col)
		}
	}
	var area []float64
	if opts.UnitMode == UnitHa {
		if opts.AreaColumn == "" {
			return nil, eris.Errorf("risk: indicator %q: ha mode requires an area column", spec.Name)
		}
		a, err := t.Floats(opts.AreaColumn)
		if err != nil {
			return nil, eris.Wrapf(err, "risk: indicator %q: area column", spec.Name)
		}
		area = a
	}

	labels := make([]string, t.NumRows())
	for i := range labels {
		labels[i] = opts.LowLabel
	}

	if spec.SumComparison {
		sums := make([]float64, t.NumRows())
		for _, col := range spec.InputColumns {
			vals, err := t.Floats(col)
			if err != nil {
				return nil, eris.Wrapf(err, "risk: indicator %q", spec.Name)
			}
			for i, v := range vals {
				if math.IsNaN(v) {
					continue // missing cells do not contribute to the sum
				}
				sums[i] += v
			}
		}
		for i, sum := range sums {
			if sum > spec.Threshold {
				labels[i] = opts.HighLabel
			}
		}
	} else {
		for _, col := range spec.InputColumns {
			vals, err := t.Floats(col)
			if err != nil {
				return nil, eris.Wrapf(err, "risk: indicator %q", spec.Name)
			}
			for i, v := range vals {
				if opts.UnitMode == UnitHa {
					// Thresholds are always percent; convert and clamp.
					// Clamping absorbs rounding drift that pushes
					// shares just past 100.
					v = clamp(v/area[i]*100, 0, 100)
				}
				// NaN never exceeds the threshold, so missing cells
				// leave the row at its current label.
				if v > spec.Threshold {
					labels[i] = opts.HighLabel
				}
			}
		}
	}

	out := t.Clone()
	if err := out.SetColumn(spec.Name, labels); err != nil {
		return nil, eris.Wrapf(err, "risk: indicator %q", spec.Name)
	}
	return out, nil
}

// clamp limits v to [min, max]. NaN passes through.
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
