// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"fmt"
	"math"
)

// ToPixelResolution downsamples audio-domain values to one value per
// display pixel. skipInitialSamples drops the pre-roll overlap at the
// front; numSamplesAvailable bounds the valid decoded range, and pixels
// whose source index would land past it stay zero rather than reading
// garbage.
func ToPixelResolution(samples []float64, skipInitialSamples, targetPixelWidth, numSamplesAvailable int) ([]float64, error) {
	if targetPixelWidth <= 0 {
		return nil, fmt.Errorf("%w: target width %d", ErrInvalidPixelRequest, targetPixelWidth)
	}
	if skipInitialSamples < 0 || skipInitialSamples >= len(samples) {
		return nil, fmt.Errorf("%w: skip count %d of %d samples", ErrInvalidPixelRequest, skipInitialSamples, len(samples))
	}

	pixels := make([]float64, targetPixelWidth)
	available := len(samples) - skipInitialSamples
	increment := float64(available) / float64(targetPixelWidth)

	for i := range pixels {
		index := int(float64(i)*increment) + skipInitialSamples
		if index > numSamplesAvailable-1 {
			break
		}
		pixels[i] = samples[index]
	}

	return pixels, nil
}

// SmoothPixels clamps single-pixel spikes and notches against their
// neighbors without altering genuine slopes. Decisions are made against
// a copy so earlier modifications never feed back into later ones.
// Modifies values in place and returns them; a no-op below 3 pixels.
func SmoothPixels(values []float64) []float64 {
	if len(values) < 3 {
		return values
	}

	original := make([]float64, len(values))
	copy(original, values)

	for i := 1; i < len(original)-1; i++ {
		switch {
		case original[i] > original[i-1] && original[i] > original[i+1]:
			values[i] = math.Max(original[i+1], original[i-1])
		case original[i] < original[i-1] && original[i] < original[i+1]:
			values[i] = math.Min(original[i+1], original[i-1])
		}
	}

	return values
}

// RenderingPeak is a conservative peak estimate: the maximum over
// adjacent pixel pairs of the smaller pair member, so an isolated
// spike cannot set the scale. Returns 0 when fewer than two pixels
// remain past the skip offset.
func RenderingPeak(values []float64, skipInitialPixels int) float64 {
	if len(values) < skipInitialPixels+2 {
		return 0
	}

	var peak float64
	for i := skipInitialPixels; i < len(values)-1; i++ {
		pair := math.Min(values[i], values[i+1])
		peak = math.Max(peak, pair)
	}
	return peak
}

// Upsample stretches samples to targetLength by linear interpolation,
// for zoom levels where pixels outnumber samples. A single input value
// fills the whole output.
func Upsample(samples []float64, targetLength int) ([]float64, error) {
	if targetLength <= 0 {
		return nil, fmt.Errorf("%w: target length %d", ErrInvalidPixelRequest, targetLength)
	}

	result := make([]float64, targetLength)
	if len(samples) == 0 {
		return result, nil
	}
	if len(samples) == 1 {
		for i := range result {
			result[i] = samples[0]
		}
		return result, nil
	}

	scale := float64(len(samples)-1) / float64(targetLength-1)
	for i := range result {
		pos := float64(i) * scale
		lower := int(math.Floor(pos))
		upper := min(lower+1, len(samples)-1)

		if lower == upper {
			result[i] = samples[lower]
		} else {
			frac := pos - float64(lower)
			result[i] = samples[lower]*(1-frac) + samples[upper]*frac
		}
	}

	return result, nil
}

// PixelScale converts a rendering peak into a y-axis scale factor that
// fills most of the display height. A non-positive peak yields 0, which
// draws a flat line rather than dividing by zero.
func PixelScale(heightPx int, peak float64) float64 {
	if heightPx <= 0 || peak <= 0 {
		return 0
	}

	yScale := float64(heightPx/2-1) / peak
	if math.IsInf(yScale, 0) || math.IsNaN(yScale) {
		return 0
	}
	return yScale
}
