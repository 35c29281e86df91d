// SPDX-License-Identifier: EPL-2.0

// Package engine drives frame-accurate audio playback on an output
// device and provides seek-and-read access to audio files for waveform
// decoding.
//
// An Engine plays one sound at a time inside a caller-supplied frame
// range. Position queries compensate for the output buffer: the
// reported position is the frame the listener is hearing, not the frame
// the decoder has reached. Reaching the end of the range releases the
// sound automatically.
//
// Device initialization is lazy. OutputAutodetect falls back to a
// silent wall-clock output when no device can be opened, which keeps
// position semantics intact on headless machines.
//
// # Usage
//
//	eng := engine.New()
//	if r := eng.StartPlayback("take.wav", 44100, 88200); r != engine.ResultOK {
//	    // handle r
//	}
//	for eng.PlaybackInProgress() {
//	    frame := eng.StreamPosition()
//	    // ...
//	}
//	eng.Shutdown()
package engine
