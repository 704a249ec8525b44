package eeg

import (
	"fmt"
	"strconv"
	"strings"
)

// FrequencyAxis is an ascending sequence of bin centres in Hz. It labels
// ITPC vectors for downstream consumers and plays no part in the computation.
type FrequencyAxis []float64

// defaultFrequencies is the recording's 58-bin axis: 0.2604 Hz start,
// 0.0651 Hz step.
var defaultFrequencies = FrequencyAxis{
	0.260416666666667, 0.325520833333333, 0.390625, 0.455729166666667,
	0.520833333333333, 0.5859375, 0.651041666666667, 0.716145833333333,
	0.78125, 0.846354166666667, 0.911458333333333, 0.9765625,
	1.04166666666667, 1.10677083333333, 1.171875, 1.23697916666667,
	1.30208333333333, 1.3671875, 1.43229166666667, 1.49739583333333,
	1.5625, 1.62760416666667, 1.69270833333333, 1.7578125,
	1.82291666666667, 1.88802083333333, 1.953125, 2.01822916666667,
	2.08333333333333, 2.1484375, 2.21354166666667, 2.27864583333333,
	2.34375, 2.40885416666667, 2.47395833333333, 2.5390625,
	2.60416666666667, 2.66927083333333, 2.734375, 2.79947916666667,
	2.86458333333333, 2.9296875, 2.99479166666667, 3.05989583333333,
	3.125, 3.19010416666667, 3.25520833333333, 3.3203125,
	3.38541666666667, 3.45052083333333, 3.515625, 3.58072916666667,
	3.64583333333333, 3.7109375, 3.77604166666667, 3.84114583333333,
	3.90625, 3.97135416666667,
}

// DefaultFrequencies returns the first n bins of the deployment axis.
// Past the table it keeps stepping at the same spacing.
func DefaultFrequencies(n int) FrequencyAxis {
	if n <= 0 {
		return FrequencyAxis{}
	}
	out := make(FrequencyAxis, n)
	step := defaultFrequencies[1] - defaultFrequencies[0]
	for i := 0; i < n; i++ {
		if i < len(defaultFrequencies) {
			out[i] = defaultFrequencies[i]
		} else {
			out[i] = defaultFrequencies[0] + float64(i)*step
		}
	}
	return out
}

// ParseFrequencies reads a comma-separated list of Hz values
func ParseFrequencies(s string) (FrequencyAxis, error) {
	var axis FrequencyAxis
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("frequency %q: %w", field, err)
		}
		axis = append(axis, f)
	}
	if err := axis.Validate(); err != nil {
		return nil, err
	}
	return axis, nil
}

// Validate checks the axis is non-empty and strictly ascending
func (a FrequencyAxis) Validate() error {
	if len(a) == 0 {
		return fmt.Errorf("frequency axis is empty")
	}
	for i := 1; i < len(a); i++ {
		if a[i] <= a[i-1] {
			return fmt.Errorf("frequency axis not ascending at index %d (%g <= %g)", i, a[i], a[i-1])
		}
	}
	return nil
}
