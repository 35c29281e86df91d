// SPDX-License-Identifier: EPL-2.0

package waveform

import "fmt"

// envelopeWindow is the smoothing half-window applied before pixel
// downsampling.
const envelopeWindow = 20

// EnvelopeSmooth replaces each sample with the maximum absolute value
// in a sliding window around it, reducing aliasing jaggedness before
// downsampling. Modifies samples in place and returns them. A monotonic
// index deque keeps the pass O(n).
func EnvelopeSmooth(samples []float64, windowSize int) ([]float64, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, windowSize)
	}

	original := make([]float64, len(samples))
	copy(original, samples)

	abs := func(i int) float64 {
		v := original[i]
		if v < 0 {
			return -v
		}
		return v
	}

	// Deque of indices into original, absolute values decreasing from
	// front to back. The front is always the window maximum.
	deque := make([]int, 0, 2*windowSize+1)

	for i := range samples {
		windowStart := max(0, i-windowSize)
		windowEnd := min(len(samples), i+windowSize)

		for len(deque) > 0 && deque[0] < windowStart {
			deque = deque[1:]
		}

		addStart := windowStart
		if i > 0 {
			addStart = max(windowStart, min(len(samples), (i-1)+windowSize))
		}

		for j := addStart; j < windowEnd; j++ {
			v := abs(j)
			for len(deque) > 0 && abs(deque[len(deque)-1]) <= v {
				deque = deque[:len(deque)-1]
			}
			deque = append(deque, j)
		}

		if len(deque) == 0 {
			samples[i] = 0
		} else {
			samples[i] = abs(deque[0])
		}
	}

	return samples, nil
}
