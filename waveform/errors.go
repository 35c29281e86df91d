// SPDX-License-Identifier: EPL-2.0

package waveform

import "errors"

var (
	// ErrInvalidFrequencyRange indicates band bounds outside (0, 0.5] or inverted
	ErrInvalidFrequencyRange = errors.New("invalid frequency range")

	// ErrInvalidPixelRequest indicates a bad width or skip count for pixel scaling
	ErrInvalidPixelRequest = errors.New("invalid pixel request")

	// ErrInvalidWindow indicates a non-positive smoothing window
	ErrInvalidWindow = errors.New("window size must be >= 1")
)
