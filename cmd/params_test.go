package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openforis/whisp-go/internal/config"
	"github.com/openforis/whisp-go/internal/risk"
)

func testRiskConfig() config.RiskConfig {
	return config.RiskConfig{
		UnitMode:   "percent",
		AreaColumn: "Plot_area_ha",
		LowLabel:   "no",
		HighLabel:  "yes",
		Treecover: config.IndicatorConfig{
			Name: "Indicator_1_treecover", Threshold: 10, Columns: []string{"EUFO_2020"},
		},
		Commodities: config.IndicatorConfig{
			Name: "Indicator_2_commodities", Threshold: 10, Columns: []string{"TMF_plant"},
		},
		DisturbanceBefore: config.IndicatorConfig{
			Name: "Indicator_3_disturbance_before_2020", Threshold: 0, Columns: []string{"GFC_loss_before_2020"},
		},
		DisturbanceAfter: config.IndicatorConfig{
			Name: "Indicator_4_disturbance_after_2020", Threshold: 0, Columns: []string{"RADD_after_2020"},
		},
	}
}

func TestRiskParams(t *testing.T) {
	params, err := riskParams(testRiskConfig())
	require.NoError(t, err)

	assert.Equal(t, risk.UnitPercent, params.UnitMode)
	assert.Equal(t, "Plot_area_ha", params.AreaColumn)
	assert.Equal(t, "Indicator_1_treecover", params.Indicators[0].Name)
	assert.Equal(t, []string{"RADD_after_2020"}, params.Indicators[3].InputColumns)
	assert.Equal(t, 10.0, params.Indicators[1].Threshold)
}

func TestRiskParamsBadUnitMode(t *testing.T) {
	rc := testRiskConfig()
	rc.UnitMode = "furlongs"
	_, err := riskParams(rc)
	assert.Error(t, err)
}

func TestLoadLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookup.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"dataset_name,dataset_order\nGFC_TC_2020,2\nEUFO_2020,1\n",
	), 0o644))

	lc := config.LookupConfig{NameColumn: "dataset_name", OrderColumn: "dataset_order"}

	lookup, err := loadLookup(lc, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"EUFO_2020", "GFC_TC_2020"}, lookup.OrderedNames())

	// Override path wins over the configured one.
	lc.Path = "does-not-exist.csv"
	lookup, err = loadLookup(lc, path)
	require.NoError(t, err)
	assert.Len(t, lookup, 2)
}

func TestLoadLookupUnconfigured(t *testing.T) {
	_, err := loadLookup(config.LookupConfig{}, "")
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	origDir, origSuffix := riskOutputDir, riskSuffix
	t.Cleanup(func() { riskOutputDir, riskSuffix = origDir, origSuffix })

	riskOutputDir = ""
	riskSuffix = "_risk"
	assert.Equal(t, filepath.Join("data", "plots_risk.csv"), outputPath(filepath.Join("data", "plots.csv")))

	riskOutputDir = "out"
	assert.Equal(t, filepath.Join("out", "plots_risk.csv"), outputPath(filepath.Join("data", "plots.csv")))

	riskSuffix = ""
	assert.Equal(t, filepath.Join("out", "plots.xlsx"), outputPath("plots.xlsx"))
}
