package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/laserkelvin/Spectron3000/internal/units"
)

// PartitionFunc evaluates the rotational partition function at a
// temperature in K. Implementations must be monotonic in temperature and
// positive for positive temperatures.
type PartitionFunc interface {
	Eval(tempK float64) float64
}

// PartitionPoint is one tabulated (temperature, Q) node.
type PartitionPoint struct {
	TemperatureK float64 `json:"temperature_k"`
	Q            float64 `json:"q"`
}

// PartitionTable interpolates log Q linearly in log T between tabulated
// nodes. JPL and CDMS partition functions are close to power laws in
// temperature, so the log-log segments track them tightly. Outside the
// tabulated range the boundary segment is extended.
type PartitionTable struct {
	points []PartitionPoint
}

// NewPartitionTable builds an interpolation table from at least two nodes
// with positive temperatures and values. Nodes are sorted by temperature.
func NewPartitionTable(points []PartitionPoint) (*PartitionTable, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("partition table: need at least 2 points, got %d", len(points))
	}
	sorted := append([]PartitionPoint(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TemperatureK < sorted[j].TemperatureK })
	for i, p := range sorted {
		if p.TemperatureK <= 0 || p.Q <= 0 {
			return nil, fmt.Errorf("partition table: point %d must have positive temperature and Q", i)
		}
		if i > 0 && p.TemperatureK == sorted[i-1].TemperatureK {
			return nil, fmt.Errorf("partition table: duplicate temperature %g", p.TemperatureK)
		}
	}
	return &PartitionTable{points: sorted}, nil
}

// Eval interpolates Q at tempK. tempK must be positive.
func (t *PartitionTable) Eval(tempK float64) float64 {
	pts := t.points
	i := sort.Search(len(pts), func(i int) bool { return pts[i].TemperatureK >= tempK })

	var lo, hi PartitionPoint
	switch {
	case i <= 0:
		lo, hi = pts[0], pts[1]
	case i >= len(pts):
		lo, hi = pts[len(pts)-2], pts[len(pts)-1]
	default:
		lo, hi = pts[i-1], pts[i]
	}

	t0, t1 := math.Log(lo.TemperatureK), math.Log(hi.TemperatureK)
	q0, q1 := math.Log(lo.Q), math.Log(hi.Q)
	frac := (math.Log(tempK) - t0) / (t1 - t0)
	return math.Exp(q0 + frac*(q1-q0))
}

// StateSumPartition evaluates Q(T) directly as the degeneracy-weighted
// Boltzmann sum over the catalog's own states. It stands in whenever a
// catalog arrives without a tabulated partition function.
type StateSumPartition struct {
	energiesCm []float64
	weights    []float64
}

// NewStateSumPartition builds the state sum from parsed transitions.
func NewStateSumPartition(transitions []Transition) *StateSumPartition {
	s := &StateSumPartition{
		energiesCm: make([]float64, 0, len(transitions)),
		weights:    make([]float64, 0, len(transitions)),
	}
	for _, tr := range transitions {
		s.energiesCm = append(s.energiesCm, tr.LowerStateEnergy)
		s.weights = append(s.weights, float64(tr.UpperStateDegeneracy))
	}
	return s
}

// Eval computes the state sum at tempK.
func (s *StateSumPartition) Eval(tempK float64) float64 {
	q := 0.0
	for i, e := range s.energiesCm {
		q += s.weights[i] * units.BoltzmannFactor(e, tempK)
	}
	return q
}
