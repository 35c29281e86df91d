// SPDX-License-Identifier: EPL-2.0

// Package annoplay provides frame-accurate audio playback and waveform
// rendering for Go applications.
//
// It is built for tools that navigate speech recordings by exact frame
// positions: play an arbitrary frame range, follow the audible position
// (compensated for output buffering latency), and draw a scrollable
// amplitude waveform of the same file.
//
// # Layers
//
// The module is organized as a small stack; use the layer that fits:
//
//   - audio: Source/Decoder abstractions, resampling, mono fold-down
//   - formats/{wav,mp3,vorbis,aiff}: decoders returning audio.Source
//   - engine: the playback backend; frame-range playback on the audio
//     device, audible position queries, chunked waveform reads
//   - player: event-driven controller on top of engine; open/play/stop
//     with lifecycle events and progress callbacks
//   - waveform: band-pass + envelope signal pipeline, tile cache, and
//     viewport rendering
//
// # Quick start
//
// The Session type wires engine and player together:
//
//	s := annoplay.NewSession()
//	defer s.Close()
//
//	s.Player.AddListener(listener)
//	if err := s.Player.Open("speech.wav"); err != nil {
//		log.Fatal(err)
//	}
//	s.Player.PlayAt(44100) // from frame 44100 to the end
//
// Rendering a waveform image needs no audio device:
//
//	img, err := annoplay.RenderWaveform("speech.wav", viewport)
//
// # Supported formats
//
// WAV (8/16/24/32-bit int and 32-bit float), MP3, Ogg Vorbis, and AIFF.
// Decoders are selected by file extension through audio.Registry; see
// engine.DefaultRegistry.
package annoplay
