// SPDX-License-Identifier: EPL-2.0

// Package audio provides the low-level PCM primitives shared by the
// playback engine and the waveform pipeline.
//
// The building blocks are:
//   - Source: a stream of interleaved float32 samples in [-1, 1]
//   - Registry: decoder lookup keyed by file extension
//   - Resampler: streaming cubic-interpolation sample rate conversion
//   - MonoMixer: channel fold-down by averaging
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (n int, err error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders in the formats subpackages return Sources; processors wrap
// Sources and are themselves Sources, so pipelines compose:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	out := audio.NewResampler(src, 48000)
//
// # Optional Capabilities
//
// Sources may additionally implement FrameSeeker (reposition without
// re-decoding), TotalFramer (known length in frames), and BitDepther
// (encoded bit depth). SeekToFrame uses FrameSeeker when present and
// falls back to read-and-discard, which keeps chunked decoding correct
// for formats without native seeking.
//
// # Sample Format
//
// All samples are float32 normalized to [-1.0, 1.0]. Frame counts are
// per channel: a Source delivering n samples for c channels has advanced
// by n/c frames.
//
// Processing functions return io.EOF when no more data is available;
// any other error indicates a problem with the source.
package audio
