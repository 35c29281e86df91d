// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/annoplay/annoplay/audio"
	"github.com/annoplay/annoplay/utils"
)

// limitSource caps a source at a fixed number of frames, reporting io.EOF
// once they are consumed.
type limitSource struct {
	src       audio.Source
	remaining int64 // samples, not frames
}

func newLimitSource(src audio.Source, frames int64) *limitSource {
	channels := int64(src.Channels())
	samples := frames * channels
	if frames > math.MaxInt64/channels {
		// Unbounded-range sentinel; never limits in practice.
		samples = math.MaxInt64
	}
	return &limitSource{
		src:       src,
		remaining: samples,
	}
}

func (l *limitSource) SampleRate() int { return l.src.SampleRate() }
func (l *limitSource) Channels() int   { return l.src.Channels() }
func (l *limitSource) BufSize() int    { return l.src.BufSize() }
func (l *limitSource) Close() error    { return l.src.Close() }

func (l *limitSource) ReadSamples(dst []float32) (int, error) {
	if l.remaining <= 0 {
		return 0, io.EOF
	}

	want := int64(len(dst))
	if want > l.remaining {
		want = l.remaining
	}

	n, err := l.src.ReadSamples(dst[:want])
	l.remaining -= int64(n)
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}
	return n, nil
}

// stereoSource expands a mono source to two interleaved channels. Sources
// with more than two channels are folded to mono first by the caller.
type stereoSource struct {
	src audio.Source
	tmp []float32
}

func newStereoSource(src audio.Source) *stereoSource {
	return &stereoSource{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (s *stereoSource) SampleRate() int { return s.src.SampleRate() }
func (s *stereoSource) Channels() int   { return 2 }
func (s *stereoSource) BufSize() int    { return s.src.BufSize() }
func (s *stereoSource) Close() error    { return s.src.Close() }

func (s *stereoSource) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / 2
	if frames == 0 {
		return 0, nil
	}

	if cap(s.tmp) < frames {
		s.tmp = make([]float32, frames)
	}

	n, err := s.src.ReadSamples(s.tmp[:frames])
	for i := range n {
		dst[2*i] = s.tmp[i]
		dst[2*i+1] = s.tmp[i]
	}
	return n * 2, err
}

// countingSource tracks how many samples downstream has pulled. The oto
// player drives it, so the count is the decoded clock of the playback
// channel.
type countingSource struct {
	src     audio.Source
	samples atomic.Int64
}

func (c *countingSource) SampleRate() int { return c.src.SampleRate() }
func (c *countingSource) Channels() int   { return c.src.Channels() }
func (c *countingSource) BufSize() int    { return c.src.BufSize() }
func (c *countingSource) Close() error    { return c.src.Close() }

func (c *countingSource) ReadSamples(dst []float32) (int, error) {
	n, err := c.src.ReadSamples(dst)
	c.samples.Add(int64(n))
	return n, err
}

func (c *countingSource) frames() int64 {
	return c.samples.Load() / int64(c.src.Channels())
}

// pcmStream adapts a float32 source to the signed 16-bit little-endian
// byte stream the output device consumes.
type pcmStream struct {
	src audio.Source
	buf []float32
}

func (p *pcmStream) Read(b []byte) (int, error) {
	samples := len(b) / 2
	if samples == 0 {
		return 0, nil
	}

	if cap(p.buf) < samples {
		p.buf = make([]float32, samples)
	}

	n, err := p.src.ReadSamples(p.buf[:samples])
	for i := range n {
		v := utils.Float32ToInt16(p.buf[i])
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}

	if n == 0 && err == nil {
		err = io.EOF
	}
	return n * 2, err
}

// buildOutputStream assembles the playback chain for a source: frame
// limiting, rate conversion to the device rate, and channel fold to the
// stereo device layout. The returned countingSource reports output frames
// pulled by the device.
func buildOutputStream(src audio.Source, rangeFrames int64, deviceRate int) (*countingSource, *pcmStream) {
	var chain audio.Source = newLimitSource(src, rangeFrames)

	if chain.SampleRate() != deviceRate {
		chain = audio.NewResampler(chain, deviceRate)
	}

	switch chain.Channels() {
	case 2:
	case 1:
		chain = newStereoSource(chain)
	default:
		chain = newStereoSource(audio.NewMonoMixer(chain))
	}

	counter := &countingSource{src: chain}
	return counter, &pcmStream{src: counter}
}
