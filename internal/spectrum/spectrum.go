// Package spectrum loads observed spectra from tab-delimited text.
package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/laserkelvin/Spectron3000/internal/model"
)

// ParseError reports an upload that yielded no usable samples. The caller
// keeps whatever observation was loaded before.
type ParseError struct {
	Comment string
	Reason  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse spectrum %s: %s", e.Comment, e.Reason)
}

// Load reads a two-column tab-delimited spectrum: frequency in MHz and
// intensity in Jy/beam. Lines that do not carry two finite numbers are
// dropped, which tolerates header rows and stray comments. Samples come
// back sorted by ascending frequency; when a frequency repeats, the first
// occurrence in input order wins.
func Load(r io.Reader, comment string) (*model.Spectrum, error) {
	type sample struct {
		freq float64
		flux float64
	}
	var samples []sample

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 2 {
			continue
		}
		freq, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil || math.IsNaN(freq) || math.IsInf(freq, 0) {
			continue
		}
		flux, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil || math.IsNaN(flux) || math.IsInf(flux, 0) {
			continue
		}
		samples = append(samples, sample{freq: freq, flux: flux})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read spectrum: %w", err)
	}
	if len(samples) == 0 {
		return nil, &ParseError{Comment: comment, Reason: "no numeric frequency/intensity pairs"}
	}

	// Stable sort so that the first occurrence of a duplicate frequency is
	// the one that survives deduplication.
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].freq < samples[j].freq })

	freqs := make([]float64, 0, len(samples))
	fluxes := make([]float64, 0, len(samples))
	for _, s := range samples {
		if n := len(freqs); n > 0 && freqs[n-1] == s.freq {
			continue
		}
		freqs = append(freqs, s.freq)
		fluxes = append(fluxes, s.flux)
	}

	return &model.Spectrum{Comment: comment, FrequencyMHz: freqs, Intensity: fluxes}, nil
}
