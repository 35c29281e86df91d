// SPDX-License-Identifier: EPL-2.0

// Package waveform computes and renders amplitude waveform displays
// from decoded audio.
//
// The signal path reads 10 second chunks with a short pre-roll, runs a
// band-pass filter and an envelope smoother over the samples, and
// collapses the result to one amplitude value per display pixel.
// Rendered output is cut into fixed-width tiles keyed by start time,
// zoom level and height, cached in a small ring sized to the viewport,
// and composed on demand:
//
//	eng := engine.New()
//	w := waveform.New("speech.wav", eng, viewport)
//	defer w.Close()
//
//	img, err := w.RenderViewport(viewport).Image()
//
// Tile renders run on a shared worker pool and are represented as
// cancellable tasks, so scrolling away from a region abandons its
// pending work instead of finishing it.
package waveform
