// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/annoplay/annoplay/utils"
)

// Resampler converts a source to a target sample rate with cubic
// interpolation over interleaved frames, preserving the channel count.
// The playback engine wraps sources with it whenever the file rate and
// the output device rate differ. While downsampling, a one-pole low-pass
// takes the edge off aliasing.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// window holds four consecutive source frames. Output interpolates
	// between window[1] and window[2]; the outer pair shapes the spline.
	window [4][]float32
	have   [4]bool
	primed bool
	frac   float64 // fractional position between window[1] and window[2]

	readBuf []float32
	eof     bool

	lowpass bool
	alpha   float32
	lpState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		readBuf:  make([]float32, 4096),
		lowpass:  step > 1,
		alpha:    0.5,
		lpState:  make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }
func (r *Resampler) Close() error    { return r.src.Close() }

// prime fills the window with the first source frames. A source that ends
// early duplicates its last frame across the remaining slots so the spline
// still has four points.
func (r *Resampler) prime() error {
	for i := 0; i < 4; i++ {
		n, err := r.src.ReadSamples(r.readBuf[:r.channels])
		if n > 0 {
			copy(r.window[i], r.readBuf[:n])
			r.have[i] = true
			if i == 0 && r.lowpass {
				// Seed the filter with the first frame so the
				// opening samples are not dragged toward zero.
				copy(r.lpState, r.readBuf[:n])
			}
		}
		if err == io.EOF {
			r.eof = true
			if i == 0 && n == 0 {
				return io.EOF
			}
			last := i
			if n == 0 {
				last = i - 1
			}
			for j := last + 1; j < 4; j++ {
				copy(r.window[j], r.window[last])
				r.have[j] = true
			}
			break
		}
		if err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	r.primed = true
	return nil
}

// advance shifts the window one source frame and reads the next one into
// the final slot, filtering it when downsampling. Past EOF the window
// keeps shifting with an empty tail so the last real interval between
// window[1] and window[2] still gets interpolated before output ends.
func (r *Resampler) advance() error {
	copy(r.window[0], r.window[1])
	copy(r.window[1], r.window[2])
	copy(r.window[2], r.window[3])
	r.have[0], r.have[1], r.have[2] = r.have[1], r.have[2], r.have[3]

	if r.eof {
		r.have[3] = false
		return nil
	}

	n, err := r.src.ReadSamples(r.readBuf[:r.channels])
	if n > 0 {
		copy(r.window[3], r.readBuf[:n])
		r.have[3] = true
		if r.lowpass {
			for c := 0; c < r.channels; c++ {
				r.window[3][c] = r.alpha*r.window[3][c] + (1-r.alpha)*r.lpState[c]
				r.lpState[c] = r.window[3][c]
			}
		}
	} else {
		r.have[3] = false
	}

	if err == io.EOF {
		r.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples produces interleaved samples at the destination rate. The
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	want := len(dst) / r.channels

	for written < want {
		for r.frac >= 1 {
			r.frac--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.have[1] || !r.have[2] {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		x := float32(r.frac)
		for c := 0; c < r.channels; c++ {
			y1 := r.window[1][c]
			y2 := r.window[2][c]
			y0 := y1
			if r.have[0] {
				y0 = r.window[0][c]
			}
			y3 := y2
			if r.have[3] {
				y3 = r.window[3][c]
			}
			dst[written*r.channels+c] = utils.CubicInterpolate(y0, y1, y2, y3, x)
		}

		written++
		r.frac += r.step
	}

	return written * r.channels, nil
}
