// Package synth implements the optically thin LTE spectral synthesis
// engine: catalog transitions plus fit parameters in, sampled synthetic
// spectrum out.
package synth

import (
	"fmt"
	"math"
	"sort"

	"github.com/laserkelvin/Spectron3000/internal/model"
	"github.com/laserkelvin/Spectron3000/internal/units"
)

// MaxIntensity caps every synthesized sample. Amplitudes that overflow the
// optically thin scaling are clamped here instead of leaking Inf or NaN
// into the output.
const MaxIntensity = 1e30

// DefaultSigmaCutoff bounds how far from its center, in units of sigma, a
// line still contributes. Beyond ten sigma a Gaussian is far below
// floating point significance.
const DefaultSigmaCutoff = 10.0

// ParameterError reports a fit parameter or grid that fails validation.
// Only the offending synthesis call is aborted.
type ParameterError struct {
	Param  string
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

// Engine computes synthetic spectra. Engines are stateless and safe for
// concurrent use from multiple goroutines.
type Engine struct {
	sigmaCutoff float64
}

// NewEngine creates an engine with the configured window cutoff.
func NewEngine(cfg model.SynthesisConfig) *Engine {
	cutoff := cfg.SigmaCutoff
	if cutoff <= 0 {
		cutoff = DefaultSigmaCutoff
	}
	return &Engine{sigmaCutoff: cutoff}
}

// Synthesize evaluates the synthetic spectrum of one catalog on the given
// frequency grid, in MHz ascending order. Each transition is shifted by
// the frequency offset, rescaled from the catalog reference temperature to
// the excitation temperature, scaled by the column density and rendered as
// a height-normalized Gaussian. The result is index-aligned with the grid;
// a catalog with no transitions yields all zeros. Identical inputs always
// produce identical outputs.
func (e *Engine) Synthesize(cat *model.Catalog, params model.FitParams, grid []float64) ([]float64, error) {
	params = params.Normalize()
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	if err := validateGrid(grid); err != nil {
		return nil, err
	}

	out := make([]float64, len(grid))
	if cat == nil || len(cat.Transitions) == 0 || len(grid) == 0 {
		return out, nil
	}

	tref := cat.ReferenceTemperatureK
	if tref <= 0 {
		tref = model.ReferenceTemperatureK
	}
	partition := cat.Partition
	if partition == nil {
		partition = model.NewStateSumPartition(cat.Transitions)
	}

	// Both rescaling factors are exactly 1 at the reference temperature.
	var lnQRatio float64
	if params.TemperatureK != tref {
		lnQRatio = math.Log(partition.Eval(tref)) - math.Log(partition.Eval(params.TemperatureK))
	}
	invTempDelta := 1.0/params.TemperatureK - 1.0/tref
	lnDensity := math.Log(params.ColumnDensity)

	for _, tr := range cat.Transitions {
		center := tr.FrequencyMHz + params.OffsetMHz
		sigma := lineSigma(params, center)
		if sigma <= 0 {
			continue
		}

		// Assembled in log space so extreme temperature and energy
		// combinations degrade to 0 or +Inf rather than NaN.
		lowerK := units.WavenumberToKelvin(tr.LowerStateEnergy)
		lnAmp := lnDensity + tr.LogIntensity*math.Ln10 + lnQRatio - lowerK*invTempDelta
		amp := clamp(math.Exp(lnAmp))
		if amp == 0 {
			continue
		}
		e.addLine(out, grid, center, sigma, amp)
	}

	for i, v := range out {
		out[i] = clamp(v)
	}
	return out, nil
}

// addLine accumulates one Gaussian onto out. Only grid points within the
// cutoff window around the center are touched; the grid is ascending, so
// the window start is found by binary search.
func (e *Engine) addLine(out, grid []float64, center, sigma, amp float64) {
	window := e.sigmaCutoff * sigma
	inv := 1.0 / (2.0 * sigma * sigma)
	for i := sort.SearchFloat64s(grid, center-window); i < len(grid) && grid[i] <= center+window; i++ {
		d := grid[i] - center
		out[i] += amp * math.Exp(-d*d*inv)
	}
}

// lineSigma resolves the Gaussian standard deviation for a line centered
// at the shifted frequency. With the velocity convention the width scales
// with the center; a center pushed to or below zero drops the line.
func lineSigma(params model.FitParams, centerMHz float64) float64 {
	if params.LinewidthUnit == model.LinewidthMHz {
		return params.Linewidth
	}
	return units.DopplerToFrequency(params.Linewidth, centerMHz)
}

// ValidateParams checks a fit parameter set. Violations come back as a
// *ParameterError naming the offending parameter.
func ValidateParams(p model.FitParams) error {
	if !(p.ColumnDensity > 0) || math.IsInf(p.ColumnDensity, 0) {
		return &ParameterError{Param: "column_density", Value: p.ColumnDensity, Reason: "must be positive and finite"}
	}
	if !(p.TemperatureK > 0) || math.IsInf(p.TemperatureK, 0) {
		return &ParameterError{Param: "temperature_k", Value: p.TemperatureK, Reason: "must be positive and finite"}
	}
	if !(p.Linewidth > 0) || math.IsInf(p.Linewidth, 0) {
		return &ParameterError{Param: "linewidth", Value: p.Linewidth, Reason: "must be positive and finite"}
	}
	switch p.LinewidthUnit {
	case "", model.LinewidthKms, model.LinewidthMHz:
	default:
		return &ParameterError{Param: "linewidth_unit", Value: string(p.LinewidthUnit), Reason: `must be "km/s" or "MHz"`}
	}
	if math.IsNaN(p.OffsetMHz) || math.IsInf(p.OffsetMHz, 0) {
		return &ParameterError{Param: "offset_mhz", Value: p.OffsetMHz, Reason: "must be finite"}
	}
	return nil
}

func validateGrid(grid []float64) error {
	for i, f := range grid {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &ParameterError{Param: "grid", Value: f, Reason: fmt.Sprintf("sample %d is not finite", i)}
		}
		if i > 0 && f < grid[i-1] {
			return &ParameterError{Param: "grid", Value: f, Reason: fmt.Sprintf("sample %d breaks ascending order", i)}
		}
	}
	return nil
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v > MaxIntensity {
		return MaxIntensity
	}
	return v
}
