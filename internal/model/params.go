package model

// LinewidthUnit selects how FitParams.Linewidth is interpreted.
type LinewidthUnit string

const (
	// LinewidthKms reads the linewidth as a Doppler velocity in km/s; the
	// Gaussian sigma then scales with each line's shifted center frequency.
	LinewidthKms LinewidthUnit = "km/s"

	// LinewidthMHz reads the linewidth as the Gaussian sigma in MHz,
	// identical for every line.
	LinewidthMHz LinewidthUnit = "MHz"
)

// FitParams control the synthesis of one molecule's spectrum. A set is
// seeded with defaults when its catalog is loaded and is only ever
// replaced as a whole unit.
type FitParams struct {
	ColumnDensity float64       `json:"column_density" yaml:"column_density" mapstructure:"column_density"` // cm^-2, > 0
	TemperatureK  float64       `json:"temperature_k" yaml:"temperature_k" mapstructure:"temperature_k"`    // excitation temperature, > 0
	Linewidth     float64       `json:"linewidth" yaml:"linewidth" mapstructure:"linewidth"`                // > 0
	LinewidthUnit LinewidthUnit `json:"linewidth_unit" yaml:"linewidth_unit" mapstructure:"linewidth_unit"`
	OffsetMHz     float64       `json:"offset_mhz" yaml:"offset_mhz" mapstructure:"offset_mhz"`
}

// DefaultFitParams returns the parameter set seeded for a freshly loaded
// catalog: the 300 K reference temperature, a typical dense-core column
// density and a 5 km/s Doppler width.
func DefaultFitParams() FitParams {
	return FitParams{
		ColumnDensity: 1e15,
		TemperatureK:  ReferenceTemperatureK,
		Linewidth:     5.0,
		LinewidthUnit: LinewidthKms,
		OffsetMHz:     0.0,
	}
}

// Normalize fills an empty linewidth unit with the velocity convention.
func (p FitParams) Normalize() FitParams {
	if p.LinewidthUnit == "" {
		p.LinewidthUnit = LinewidthKms
	}
	return p
}
