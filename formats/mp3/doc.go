// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files
// into an audio.Source delivering float32 samples in [-1.0, 1.0].
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: 2 (go-mp3 always decodes to stereo)
//   - Sample rate: from the MP3 file (typically 44.1kHz or 48kHz)
//
// # Seeking
//
// The returned source implements audio.FrameSeeker and
// audio.TotalFramer: go-mp3 exposes the decoded stream as a fixed-size
// sequence of 16-bit stereo frames, so frame positions map directly to
// byte offsets. Seeking requires the underlying reader to be an
// io.Seeker (an *os.File qualifies).
//
// # Usage
//
//	file, _ := os.Open("audio.mp3")
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // handle error
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// MP3 writing is not supported.
package mp3
