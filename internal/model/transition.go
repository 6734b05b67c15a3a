package model

// ReferenceTemperatureK is the temperature at which catalog intensities
// are tabulated, per the JPL/CDMS convention.
const ReferenceTemperatureK = 300.0

// Transition is one catalog entry for a molecular rotational line.
// Instances are immutable once parsed.
type Transition struct {
	FrequencyMHz         float64 `json:"frequency_mhz"`          // rest frequency, > 0
	UncertaintyMHz       float64 `json:"uncertainty_mhz"`        // reported frequency uncertainty
	LogIntensity         float64 `json:"log_intensity"`          // log10 intensity at 300 K, nm^2 MHz
	LowerStateEnergy     float64 `json:"lower_state_energy"`     // lower state energy in cm^-1, >= 0
	UpperStateDegeneracy int     `json:"upper_state_degeneracy"` // statistical weight, >= 1
}

// Catalog holds the parsed transitions of a single molecule together with
// the partition function used to rescale intensities away from the
// reference temperature. Transitions keep their catalog order.
type Catalog struct {
	Molecule              string        `json:"molecule"`
	Transitions           []Transition  `json:"transitions"`
	Partition             PartitionFunc `json:"-"`
	ReferenceTemperatureK float64       `json:"reference_temperature_k"`
}
