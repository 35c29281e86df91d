// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"log/slog"

	"github.com/annoplay/annoplay/engine"
)

// Default chunking and band parameters used by the tile renderer.
const (
	DefaultChunkSeconds   = 10.0
	DefaultOverlapSeconds = 0.25
)

// DefaultBand covers nearly the whole audible band while stripping DC
// offset and the topmost edge.
var DefaultBand = FrequencyRange{Low: 0.001, High: 0.45}

// ChunkReader reads one decoded window of an audio file.
// engine.Engine satisfies it.
type ChunkReader interface {
	ReadChunk(path string, chunkIndex int, chunkSeconds, overlapSeconds float64) (*engine.ChunkData, error)
}

// StripOptions parameterizes PixelStrip. Zero values select defaults.
type StripOptions struct {
	ChunkSeconds   float64
	OverlapSeconds float64
	Band           FrequencyRange
}

func (o StripOptions) withDefaults() StripOptions {
	if o.ChunkSeconds <= 0 {
		o.ChunkSeconds = DefaultChunkSeconds
	}
	if o.OverlapSeconds <= 0 {
		o.OverlapSeconds = DefaultOverlapSeconds
	}
	if o.Band == (FrequencyRange{}) {
		o.Band = DefaultBand
	}
	return o
}

// Processor turns decoded audio chunks into pixel-resolution amplitude
// strips: band-pass filter, envelope smoothing, downsampling past the
// overlap pre-roll, and pixel smoothing.
type Processor struct {
	chunks  ChunkReader
	filters *filterCache
	log     *slog.Logger
}

func NewProcessor(chunks ChunkReader) *Processor {
	return &Processor{
		chunks:  chunks,
		filters: newFilterCache(),
		log:     slog.Default(),
	}
}

// PixelStrip processes chunk chunkIndex of path into targetWidth pixel
// values. Read failures yield a zero strip with a warning; during file
// switches transient read failures are expected and must not take the
// display down.
func (p *Processor) PixelStrip(path string, chunkIndex, targetWidth int, opts StripOptions) []float64 {
	opts = opts.withDefaults()

	chunk, err := p.chunks.ReadChunk(path, chunkIndex, opts.ChunkSeconds, opts.OverlapSeconds)
	if err != nil {
		p.log.Warn("failed to read audio chunk", "chunk", chunkIndex, "error", err)
		return make([]float64, targetWidth)
	}

	samples := chunk.Samples
	if len(samples) == 0 {
		return make([]float64, targetWidth)
	}

	samples = p.filters.get(opts.Band).Apply(samples)
	if _, err := EnvelopeSmooth(samples, envelopeWindow); err != nil {
		p.log.Warn("envelope smoothing failed", "chunk", chunkIndex, "error", err)
		return make([]float64, targetWidth)
	}

	pixels, err := ToPixelResolution(samples, chunk.OverlapFrames, targetWidth, chunk.TotalFrames)
	if err != nil {
		p.log.Warn("pixel scaling failed", "chunk", chunkIndex, "error", err)
		return make([]float64, targetWidth)
	}

	return SmoothPixels(pixels)
}
