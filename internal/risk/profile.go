package risk

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Profile is a standalone risk-profile file: thresholds and input column
// sets for the four indicators, plus unit handling. It lets a run swap
// the whole classification setup without touching the main config.
type Profile struct {
	UnitMode   string             `yaml:"unit_mode"`
	AreaColumn string             `yaml:"area_column"`
	LowLabel   string             `yaml:"low_label"`
	HighLabel  string             `yaml:"high_label"`
	Indicators []ProfileIndicator `yaml:"indicators"`
}

// ProfileIndicator configures one indicator in a profile.
type ProfileIndicator struct {
	Name          string   `yaml:"name"`
	Threshold     float64  `yaml:"threshold"`
	Columns       []string `yaml:"columns"`
	SumComparison bool     `yaml:"sum_comparison"`
}

// LoadProfile reads a risk profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "risk: read profile %s", path)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(err, "risk: parse profile %s", path)
	}
	return &p, nil
}

// Params converts the profile into classification parameters. A profile
// must define exactly four indicators.
func (p *Profile) Params() (Params, error) {
	if len(p.Indicators) != 4 {
		return Params{}, eris.Errorf("risk: profile has %d indicators, want 4", len(p.Indicators))
	}
	mode := UnitMode(p.UnitMode)
	if p.UnitMode != "" {
		parsed, err := ParseUnitMode(p.UnitMode)
		if err != nil {
			return Params{}, err
		}
		mode = parsed
	}

	var params Params
	params.UnitMode = mode
	params.AreaColumn = p.AreaColumn
	params.LowLabel = p.LowLabel
	params.HighLabel = p.HighLabel
	for i, ind := range p.Indicators {
		params.Indicators[i] = IndicatorSpec{
			Name:          ind.Name,
			InputColumns:  ind.Columns,
			Threshold:     ind.Threshold,
			SumComparison: ind.SumComparison,
		}
	}
	return params, nil
}
