package risk

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openforis/whisp-go/internal/table"
)

// classifyTable builds a metrics table where each indicator reads a
// single dedicated column, so tests can force any indicator combination.
func classifyTable(t *testing.T, rows [][]string) *table.Table {
	t.Helper()
	tbl, err := table.FromRows([]string{"geo_id", "m1", "m2", "m3", "m4"}, rows)
	require.NoError(t, err)
	return tbl
}

func testParams() Params {
	var p Params
	p.UnitMode = UnitPercent
	p.LowLabel = "no"
	p.HighLabel = "yes"
	p.Indicators = [4]IndicatorSpec{
		{Name: "Indicator_1_treecover", InputColumns: []string{"m1"}, Threshold: 10},
		{Name: "Indicator_2_commodities", InputColumns: []string{"m2"}, Threshold: 10},
		{Name: "Indicator_3_disturbance_before_2020", InputColumns: []string{"m3"}, Threshold: 0},
		{Name: "Indicator_4_disturbance_after_2020", InputColumns: []string{"m4"}, Threshold: 0},
	}
	return p
}

func TestClassifyDecisionTree(t *testing.T) {
	// Metric values: 50 trips an indicator (high), 0 leaves it low.
	tests := []struct {
		name string
		row  []string // m1..m4
		want string
	}{
		// Indicator 1 low → low, regardless of the rest.
		{"no treecover", []string{"0", "0", "0", "50"}, RiskLow},
		{"no treecover, everything burning", []string{"0", "50", "50", "50"}, RiskLow},
		// Commodities or pre-2020 disturbance → low.
		{"commodities present", []string{"50", "50", "0", "50"}, RiskLow},
		{"disturbed before 2020", []string{"50", "0", "50", "50"}, RiskLow},
		// Treecover, untouched: hinges on indicator 4.
		{"no post-2020 disturbance", []string{"50", "0", "0", "0"}, RiskMoreInfo},
		{"post-2020 disturbance", []string{"50", "0", "0", "50"}, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := classifyTable(t, [][]string{append([]string{"p1"}, tt.row...)})
			out, err := Classify(tbl, testParams())
			require.NoError(t, err)

			got, err := out.Cell(RiskColumn, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyColumnOrder(t *testing.T) {
	tbl := classifyTable(t, [][]string{{"p1", "50", "0", "0", "0"}})
	out, err := Classify(tbl, testParams())
	require.NoError(t, err)

	// Original columns, then the four indicators in order, then the risk
	// column last.
	assert.Equal(t, []string{
		"geo_id", "m1", "m2", "m3", "m4",
		"Indicator_1_treecover",
		"Indicator_2_commodities",
		"Indicator_3_disturbance_before_2020",
		"Indicator_4_disturbance_after_2020",
		RiskColumn,
	}, out.Columns())
}

func TestClassifyRiskAlwaysSet(t *testing.T) {
	rows := [][]string{
		{"a", "0", "0", "0", "0"},
		{"b", "50", "0", "0", "0"},
		{"c", "50", "50", "50", "50"},
		{"d", "", "", "", ""},
		{"e", "50", "0", "0", "50"},
	}
	out, err := Classify(classifyTable(t, rows), testParams())
	require.NoError(t, err)

	col, err := out.Column(RiskColumn)
	require.NoError(t, err)
	for i, v := range col {
		assert.Contains(t, []string{RiskLow, RiskMoreInfo, RiskHigh}, v, "row %d", i)
	}
}

func TestClassifyThresholdRange(t *testing.T) {
	tbl := classifyTable(t, [][]string{{"p1", "50", "0", "0", "0"}})

	for _, bad := range []float64{150, -5} {
		params := testParams()
		params.Indicators[2].Threshold = bad

		_, err := Classify(tbl, params)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrThresholdRange), "want ErrThresholdRange, got %v", err)

		// Validation fires before any mutation.
		assert.False(t, tbl.Has("Indicator_1_treecover"))
		assert.False(t, tbl.Has(RiskColumn))
	}
}

func TestClassifyPure(t *testing.T) {
	tbl := classifyTable(t, [][]string{{"p1", "50", "0", "0", "50"}})

	first, err := Classify(tbl, testParams())
	require.NoError(t, err)
	second, err := Classify(tbl, testParams())
	require.NoError(t, err)

	assert.Equal(t, first.Columns(), second.Columns())
	assert.Equal(t, first.Row(0), second.Row(0))
	assert.False(t, tbl.Has(RiskColumn), "input must stay unmodified")
}

func TestClassifyBoundaryThresholds(t *testing.T) {
	tbl := classifyTable(t, [][]string{{"p1", "50", "0", "0", "0"}})
	params := testParams()
	params.Indicators[0].Threshold = 0
	params.Indicators[1].Threshold = 100

	_, err := Classify(tbl, params)
	assert.NoError(t, err, "0 and 100 are inside the valid range")
}

func TestDistribution(t *testing.T) {
	rows := [][]string{
		{"a", "0", "0", "0", "0"},   // low
		{"b", "50", "0", "0", "0"},  // more_info_needed
		{"c", "50", "0", "0", "50"}, // high
		{"d", "50", "0", "0", "50"}, // high
	}
	out, err := Classify(classifyTable(t, rows), testParams())
	require.NoError(t, err)

	low, moreInfo, high, err := Distribution(out)
	require.NoError(t, err)
	assert.Equal(t, 1, low)
	assert.Equal(t, 1, moreInfo)
	assert.Equal(t, 2, high)
}

func TestDistributionMissingColumn(t *testing.T) {
	tbl := classifyTable(t, nil)
	_, _, _, err := Distribution(tbl)
	assert.Error(t, err)
}
