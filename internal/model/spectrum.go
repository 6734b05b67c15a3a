package model

// Spectrum is an observed spectrum: parallel frequency and intensity
// samples sorted by ascending frequency. The frequency slice doubles as
// the evaluation grid for every synthetic spectrum overlaid on it.
type Spectrum struct {
	Comment      string    `json:"comment"` // source filename
	FrequencyMHz []float64 `json:"frequency_mhz"`
	Intensity    []float64 `json:"intensity"` // Jy/beam
}

// Points returns the number of samples.
func (s *Spectrum) Points() int {
	return len(s.FrequencyMHz)
}
