// SPDX-License-Identifier: EPL-2.0

package waveform

import "fmt"

// FrequencyRange is a normalized band-pass band. Both bounds are
// fractions of the sample rate in (0, 0.5], Low strictly below High.
type FrequencyRange struct {
	Low  float64
	High float64
}

// NewFrequencyRange validates the band eagerly; malformed bands are a
// usage error, never deferred to filtering time.
func NewFrequencyRange(low, high float64) (FrequencyRange, error) {
	if low <= 0 || low > 0.5 {
		return FrequencyRange{}, fmt.Errorf("%w: low %v not in (0, 0.5]", ErrInvalidFrequencyRange, low)
	}
	if high <= 0 || high > 0.5 {
		return FrequencyRange{}, fmt.Errorf("%w: high %v not in (0, 0.5]", ErrInvalidFrequencyRange, high)
	}
	if low >= high {
		return FrequencyRange{}, fmt.Errorf("%w: low %v >= high %v", ErrInvalidFrequencyRange, low, high)
	}
	return FrequencyRange{Low: low, High: high}, nil
}
