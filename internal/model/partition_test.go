package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func powerLawTable(t *testing.T) *PartitionTable {
	t.Helper()
	// Q(T) = 2 T^1.5, a typical linear-rotor-like scaling
	points := []PartitionPoint{
		{TemperatureK: 1000.0, Q: 2.0 * math.Pow(1000.0, 1.5)},
		{TemperatureK: 10.0, Q: 2.0 * math.Pow(10.0, 1.5)},
		{TemperatureK: 100.0, Q: 2.0 * math.Pow(100.0, 1.5)},
	}
	table, err := NewPartitionTable(points)
	require.NoError(t, err)
	return table
}

func TestPartitionTableNodesExact(t *testing.T) {
	table := powerLawTable(t)
	for _, temp := range []float64{10.0, 100.0, 1000.0} {
		want := 2.0 * math.Pow(temp, 1.5)
		assert.InEpsilon(t, want, table.Eval(temp), 1e-12, "node at %g K", temp)
	}
}

func TestPartitionTableInterpolatesPowerLaw(t *testing.T) {
	table := powerLawTable(t)
	// log-log linear segments reproduce a pure power law exactly,
	// including between nodes
	for _, temp := range []float64{18.5, 75.0, 300.0, 977.0} {
		want := 2.0 * math.Pow(temp, 1.5)
		assert.InEpsilon(t, want, table.Eval(temp), 1e-12, "interpolated at %g K", temp)
	}
}

func TestPartitionTableExtrapolatesBoundarySegments(t *testing.T) {
	table := powerLawTable(t)
	assert.InEpsilon(t, 2.0*math.Pow(2.725, 1.5), table.Eval(2.725), 1e-12, "below the table")
	assert.InEpsilon(t, 2.0*math.Pow(5000.0, 1.5), table.Eval(5000.0), 1e-12, "above the table")
}

func TestNewPartitionTableRejectsBadInput(t *testing.T) {
	_, err := NewPartitionTable([]PartitionPoint{{TemperatureK: 300.0, Q: 100.0}})
	require.Error(t, err, "single point")

	_, err = NewPartitionTable([]PartitionPoint{
		{TemperatureK: 300.0, Q: 100.0},
		{TemperatureK: -10.0, Q: 5.0},
	})
	require.Error(t, err, "nonpositive temperature")

	_, err = NewPartitionTable([]PartitionPoint{
		{TemperatureK: 150.0, Q: 0.0},
		{TemperatureK: 300.0, Q: 100.0},
	})
	require.Error(t, err, "nonpositive Q")

	_, err = NewPartitionTable([]PartitionPoint{
		{TemperatureK: 300.0, Q: 100.0},
		{TemperatureK: 300.0, Q: 120.0},
	})
	require.Error(t, err, "duplicate temperature")
}

func TestStateSumPartition(t *testing.T) {
	transitions := []Transition{
		{FrequencyMHz: 100000.0, LowerStateEnergy: 0.0, UpperStateDegeneracy: 1},
		{FrequencyMHz: 110000.0, LowerStateEnergy: 10.0, UpperStateDegeneracy: 3},
	}
	q := NewStateSumPartition(transitions)

	want := 1.0 + 3.0*math.Exp(-10.0/(0.6950348004*300.0))
	assert.InEpsilon(t, want, q.Eval(300.0), 1e-12)

	// monotonic in temperature
	assert.Less(t, q.Eval(10.0), q.Eval(100.0))
	assert.Less(t, q.Eval(100.0), q.Eval(300.0))
}

func TestFitParamsNormalize(t *testing.T) {
	p := FitParams{ColumnDensity: 1e15, TemperatureK: 300.0, Linewidth: 5.0}
	assert.Equal(t, LinewidthKms, p.Normalize().LinewidthUnit)

	p.LinewidthUnit = LinewidthMHz
	assert.Equal(t, LinewidthMHz, p.Normalize().LinewidthUnit)
}
