// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"math"
	"sync"
)

// bandPassTaps is the FIR kernel length. Odd so the kernel has an exact
// center and the filtered signal stays phase-aligned with the input.
const bandPassTaps = 127

// bandPassFilter is a windowed-sinc FIR band-pass over a normalized
// FrequencyRange. Construction computes the kernel once; Apply is
// stateless and safe for concurrent use.
type bandPassFilter struct {
	kernel []float64
}

// newBandPassFilter builds the kernel as the difference of two
// Hamming-windowed low-pass sinc kernels at the band edges.
func newBandPassFilter(band FrequencyRange) *bandPassFilter {
	lowKernel := lowPassKernel(band.Low, bandPassTaps)
	highKernel := lowPassKernel(band.High, bandPassTaps)

	kernel := make([]float64, bandPassTaps)
	for i := range kernel {
		kernel[i] = highKernel[i] - lowKernel[i]
	}

	return &bandPassFilter{kernel: kernel}
}

// lowPassKernel returns a unity-gain windowed-sinc low-pass kernel with
// normalized cutoff in (0, 0.5].
func lowPassKernel(cutoff float64, taps int) []float64 {
	kernel := make([]float64, taps)
	center := float64(taps-1) / 2

	var sum float64
	for i := range kernel {
		x := float64(i) - center
		var v float64
		if x == 0 {
			v = 2 * math.Pi * cutoff
		} else {
			v = math.Sin(2*math.Pi*cutoff*x) / x
		}
		// Hamming window
		v *= 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(taps-1))
		kernel[i] = v
		sum += v
	}

	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// Apply convolves samples with the kernel, centered, returning a new
// slice of the same length. Edges are treated as zero-padded.
func (f *bandPassFilter) Apply(samples []float64) []float64 {
	if len(samples) == 0 {
		return []float64{}
	}

	out := make([]float64, len(samples))
	half := len(f.kernel) / 2

	for i := range out {
		var acc float64
		for k, coeff := range f.kernel {
			j := i + k - half
			if j < 0 || j >= len(samples) {
				continue
			}
			acc += coeff * samples[j]
		}
		out[i] = acc
	}
	return out
}

// filterCache caches kernels per band; waveform rendering reuses the
// same handful of bands across thousands of chunks.
type filterCache struct {
	mu      sync.RWMutex
	filters map[FrequencyRange]*bandPassFilter
}

func newFilterCache() *filterCache {
	return &filterCache{filters: make(map[FrequencyRange]*bandPassFilter)}
}

func (c *filterCache) get(band FrequencyRange) *bandPassFilter {
	c.mu.RLock()
	f, ok := c.filters[band]
	c.mu.RUnlock()
	if ok {
		return f
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.filters[band]; ok {
		return f
	}
	f = newBandPassFilter(band)
	c.filters[band] = f
	return f
}
