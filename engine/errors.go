// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

// Result is the status code returned by StartPlayback.
type Result int

const (
	// ResultOK indicates playback started.
	ResultOK Result = 0

	// ResultUnspecified indicates an unclassified failure.
	ResultUnspecified Result = -1

	// ResultNoAudioDevice indicates no usable audio output device.
	ResultNoAudioDevice Result = -2

	// ResultFileUnusable indicates the file is missing or cannot be decoded.
	ResultFileUnusable Result = -3

	// ResultInconsistentState indicates playback is already in progress.
	ResultInconsistentState Result = -4
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultUnspecified:
		return "unspecified failure"
	case ResultNoAudioDevice:
		return "no audio device"
	case ResultFileUnusable:
		return "file unusable"
	case ResultInconsistentState:
		return "inconsistent state"
	default:
		return "unknown result"
	}
}

// NoPosition is returned by StopPlayback when nothing was playing.
const NoPosition int64 = -1

var (
	// ErrNoSoundLoaded indicates a query against an engine with no sound loaded
	ErrNoSoundLoaded = errors.New("no sound loaded")

	// ErrBadSampleRate indicates the loaded sound reported a non-positive rate
	ErrBadSampleRate = errors.New("non-positive sample rate")

	// ErrInvalidChunk indicates a malformed chunk read request
	ErrInvalidChunk = errors.New("invalid chunk request")
)
