// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF audio file decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files into
// an audio.Source delivering float32 samples in [-1.0, 1.0]. Integer
// PCM at 8, 16, 24 and 32 bits is supported and normalized by the
// source word size.
//
// AIFF decoding has no cheap frame seek, so chunked reads fall back to
// decode-and-discard through audio.SeekToFrame. The total frame count
// is taken from the COMM chunk and exposed through audio.TotalFramer.
//
// # Usage
//
//	file, _ := os.Open("audio.aiff")
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // handle error
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
package aiff
