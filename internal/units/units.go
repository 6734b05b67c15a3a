// Package units provides the physical constants and unit conversions used
// throughout Spectron3000 for rotational spectroscopy.
package units

import "math"

// Physical constants, CODATA 2018.
const (
	// SpeedOfLight is c in m/s
	SpeedOfLight = 299792458.0

	// BoltzmannCm is the Boltzmann constant expressed in wavenumbers, cm^-1/K
	BoltzmannCm = 0.6950348004
)

// DopplerToFrequency converts a Doppler velocity in km/s at a center
// frequency in MHz into the equivalent frequency width in MHz.
func DopplerToFrequency(velocityKms, centerMHz float64) float64 {
	return velocityKms * 1000.0 * centerMHz / SpeedOfLight
}

// FrequencyToDoppler converts a frequency offset in MHz at a center
// frequency in MHz into the equivalent Doppler velocity in km/s.
func FrequencyToDoppler(centerMHz, offsetMHz float64) float64 {
	return (SpeedOfLight * offsetMHz / centerMHz) / 1000.0
}

// MHzToWavenumber converts a frequency in MHz to wavenumbers (cm^-1).
func MHzToWavenumber(frequencyMHz float64) float64 {
	return (frequencyMHz / 1000.0) / (SpeedOfLight / 1e7)
}

// WavenumberToMHz converts wavenumbers (cm^-1) to MHz.
func WavenumberToMHz(wavenumber float64) float64 {
	return wavenumber * (SpeedOfLight / 1e7) * 1000.0
}

// WavenumberToKelvin converts a state energy in cm^-1 to Kelvin.
func WavenumberToKelvin(wavenumber float64) float64 {
	return wavenumber / BoltzmannCm
}

// KelvinToWavenumber converts a state energy in Kelvin to cm^-1.
func KelvinToWavenumber(tempK float64) float64 {
	return tempK * BoltzmannCm
}

// BoltzmannFactor computes the Boltzmann weight exp(-E/kT) for a state
// energy in cm^-1 and a temperature in K.
func BoltzmannFactor(energyCm, tempK float64) float64 {
	return math.Exp(-energyCm / (BoltzmannCm * tempK))
}

// GaussianFWHM converts a Gaussian standard deviation to the full width at
// half maximum.
func GaussianFWHM(sigma float64) float64 {
	return 2.0 * math.Sqrt(2.0*math.Ln2) * sigma
}

// GaussianSigma converts a full width at half maximum to the Gaussian
// standard deviation.
func GaussianSigma(fwhm float64) float64 {
	return fwhm / (2.0 * math.Sqrt(2.0*math.Ln2))
}

// GaussianHeight returns the peak height of a Gaussian with the given
// integrated area and standard deviation.
func GaussianHeight(area, sigma float64) float64 {
	return area / (math.Sqrt(2.0*math.Pi) * sigma)
}

// GaussianArea returns the analytic integral of a Gaussian with the given
// peak height and standard deviation.
func GaussianArea(height, sigma float64) float64 {
	return height * sigma * math.Sqrt(2.0*math.Pi)
}

// ColumnDensityToFlux computes the expected integrated flux in Jy for a
// column density in cm^-2, intrinsic line strength S (Su^2), transition
// frequency in MHz, partition function Q, upper state energy in K and
// excitation temperature in K, in the optically thin limit.
func ColumnDensityToFlux(columnDensity, lineStrength, frequencyMHz, q, upperK, tempK float64) float64 {
	numerator := columnDensity * lineStrength * math.Pow(frequencyMHz/1e3, 3.0) / 1e20
	denominator := 2.04 * q * math.Exp(upperK/tempK)
	return numerator / denominator
}

// IntensityToLineStrength recovers the intrinsic line strength Su^2 from a
// catalog intensity in nm^2 MHz, given the partition function Q, the
// transition frequency in MHz, the upper state energy in K and the
// temperature in K.
func IntensityToLineStrength(intensity, q, frequencyMHz, upperK, tempK float64) float64 {
	upperCm := KelvinToWavenumber(upperK)
	lowerCm := MHzToWavenumber(WavenumberToMHz(upperCm) - frequencyMHz)
	population := BoltzmannFactor(lowerCm, tempK) - BoltzmannFactor(upperCm, tempK)
	return intensity * q / (4.16231e-5 * frequencyMHz * population)
}
