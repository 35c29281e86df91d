// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding.
//
// The decoder is built on github.com/go-audio/wav and returns an
// audio.Source delivering float32 samples normalized to [-1.0, 1.0].
//
// # Supported Formats
//
//   - Integer PCM at 8, 16, 24, and 32 bits per sample
//   - 32-bit IEEE-float PCM
//   - Any channel count and sample rate
//
// Normalization follows the source bit depth: 16-bit words divide by
// 32768, 24-bit by 8388608, 32-bit integer by 2147483648; float words
// pass through unchanged.
//
// # Usage
//
//	file, _ := os.Open("audio.wav")
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // handle error
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// The returned source also implements audio.TotalFramer and
// audio.BitDepther, which the playback engine uses for format detection
// and end-frame defaults.
package wav
