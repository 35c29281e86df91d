// SPDX-License-Identifier: EPL-2.0

package player

import "errors"

// MaxShortIntervalFrames is the longest range PlayShortInterval accepts.
const MaxShortIntervalFrames = 1 << 20

// NotPlaying is returned by Stop when no playback was active.
const NotPlaying int64 = -1

var (
	// ErrFileNotFound indicates Open was given a path that does not exist
	ErrFileNotFound = errors.New("audio file not found")

	// ErrInvalidFrameRange indicates a start/end pair that is negative or empty
	ErrInvalidFrameRange = errors.New("invalid frame range")

	// ErrIntervalTooLong indicates a short interval over MaxShortIntervalFrames
	ErrIntervalTooLong = errors.New("short interval too long")
)
