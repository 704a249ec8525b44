// Package itpc computes inter-trial phase coherence: the length of the mean
// resultant vector of unit phasors across trials, one value per frequency.
package itpc

import (
	"math"
)

// Vector holds one ITPC value per frequency bin, each in [0, 1] or NaN
type Vector []float64

// Defined reports whether every entry is a number
func (v Vector) Defined() bool {
	if len(v) == 0 {
		return false
	}
	for _, x := range v {
		if math.IsNaN(x) {
			return false
		}
	}
	return true
}

// Undefined returns a NaN vector of length freqs
func Undefined(freqs int) Vector {
	v := make(Vector, freqs)
	for i := range v {
		v[i] = math.NaN()
	}
	return v
}

// Compute returns |mean(exp(i*theta))| per frequency column. A matrix with
// no trials yields NaN at every frequency.
func Compute(phases *PhaseMatrix) Vector {
	trials, freqs := phases.Dims()
	if trials == 0 {
		return Undefined(freqs)
	}

	out := make(Vector, freqs)
	n := float64(trials)
	for j := 0; j < freqs; j++ {
		out[j] = MeanResultantLength(phases.Column(j), n)
	}
	return out
}

// MeanResultantLength is |sum(exp(i*theta))| / n, clamped to 1 against
// rounding on perfectly locked phases.
func MeanResultantLength(angles []float64, n float64) float64 {
	var sumCos, sumSin float64
	for _, theta := range angles {
		s, c := math.Sincos(theta)
		sumCos += c
		sumSin += s
	}
	r := math.Hypot(sumCos/n, sumSin/n)
	if r > 1 {
		return 1
	}
	return r
}

// MeanPhase returns the angle of the mean resultant per frequency in
// (-pi, pi]. Frequencies with no trials, or whose phasors cancel exactly,
// yield NaN.
func MeanPhase(phases *PhaseMatrix) Vector {
	trials, freqs := phases.Dims()
	if trials == 0 {
		return Undefined(freqs)
	}

	out := make(Vector, freqs)
	for j := 0; j < freqs; j++ {
		var sumCos, sumSin float64
		for _, theta := range phases.Column(j) {
			s, c := math.Sincos(theta)
			sumCos += c
			sumSin += s
		}
		if math.Hypot(sumCos, sumSin) < cancelTolerance*float64(trials) {
			out[j] = math.NaN()
			continue
		}
		angle := math.Atan2(sumSin, sumCos)
		if angle == -math.Pi {
			angle = math.Pi
		}
		out[j] = angle
	}
	return out
}

const cancelTolerance = 1e-12
