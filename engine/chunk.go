// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/annoplay/annoplay/audio"
)

// ChunkData is one decoded window of an audio file, mixed down to mono
// and normalized to [-1, 1].
type ChunkData struct {
	// Samples holds one value per frame, channels averaged.
	Samples []float64

	SampleRate int

	// Channels of the source file before the mono fold.
	Channels int

	// OverlapFrames is the pre-roll included at the front of Samples for
	// filter continuity. 0 for the first chunk.
	OverlapFrames int

	// TotalFrames actually decoded into Samples. Shorter than requested
	// at the end of the file.
	TotalFrames int
}

// ReadChunk reads chunk chunkIndex of a file split into windows of
// chunkSeconds, prefixed with overlapSeconds of pre-roll for every chunk
// after the first. Short final chunks return the frames that exist; a
// chunk entirely past the end returns zero frames.
func (e *Engine) ReadChunk(path string, chunkIndex int, chunkSeconds, overlapSeconds float64) (*ChunkData, error) {
	if chunkIndex < 0 || chunkSeconds <= 0 || overlapSeconds < 0 {
		return nil, ErrInvalidChunk
	}

	src, f, err := e.openRaw(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer src.Close()

	rate := src.SampleRate()
	framesPerChunk := int64(chunkSeconds * float64(rate))
	overlapFrames := int64(overlapSeconds * float64(rate))
	if framesPerChunk <= 0 {
		return nil, ErrInvalidChunk
	}

	offset := int64(chunkIndex) * framesPerChunk
	overlap := int64(0)
	if chunkIndex > 0 {
		offset -= overlapFrames
		overlap = overlapFrames
	}
	if offset < 0 {
		offset = 0
	}

	channels := src.Channels()

	if err := audio.SeekToFrame(src, offset); err != nil {
		if errors.Is(err, io.EOF) {
			// Chunk starts past the end of the file.
			return &ChunkData{
				Samples:    []float64{},
				SampleRate: rate,
				Channels:   channels,
			}, nil
		}
		return nil, fmt.Errorf("seeking chunk %d: %w", chunkIndex, err)
	}

	want := framesPerChunk + overlap
	mono := audio.NewMonoMixer(src)
	samples := make([]float64, 0, want)
	buf := make([]float32, 4096)

	for int64(len(samples)) < want {
		room := want - int64(len(samples))
		if room > int64(len(buf)) {
			room = int64(len(buf))
		}

		n, err := mono.ReadSamples(buf[:room])
		for _, v := range buf[:n] {
			samples = append(samples, float64(v))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading chunk %d: %w", chunkIndex, err)
		}
		if n == 0 {
			break
		}
	}

	return &ChunkData{
		Samples:       samples,
		SampleRate:    rate,
		Channels:      channels,
		OverlapFrames: int(overlap),
		TotalFrames:   len(samples),
	}, nil
}
