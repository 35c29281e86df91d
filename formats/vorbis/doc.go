// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis
// streams into an audio.Source delivering float32 samples in [-1.0, 1.0].
// Vorbis decodes to float natively, so no integer normalization step is
// involved.
//
// # Seeking
//
// The returned source implements audio.FrameSeeker and
// audio.TotalFramer through the ogg seek table, which makes chunked
// reads for waveform rendering cheap on seekable inputs.
//
// # Usage
//
//	file, _ := os.Open("audio.ogg")
//	src, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // handle error
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
package vorbis
