// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/annoplay/annoplay/audio"
)

const ieeeFloatFormat = 3

// wavReader is the subset of gowav.Decoder used here, as an interface to
// allow testing.
type wavReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
	Format() *goaudio.Format
}

// source wraps a go-audio wav.Decoder to implement audio.Source.
type source struct {
	dec         wavReader
	sampleRate  int
	channels    int
	bitDepth    int
	floatFormat bool
	totalFrames int64
	intBuf      *goaudio.IntBuffer
}

func (s *source) SampleRate() int    { return s.sampleRate }
func (s *source) Channels() int      { return s.channels }
func (s *source) BitDepth() int      { return s.bitDepth }
func (s *source) TotalFrames() int64 { return s.totalFrames }
func (s *source) Close() error       { return nil }

func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	if s.floatFormat {
		// IEEE-float WAV: the decoder hands back the raw 32-bit words,
		// which are already normalized float samples.
		for i := 0; i < n; i++ {
			dst[i] = math.Float32frombits(uint32(int32(s.intBuf.Data[i])))
		}
	} else {
		// Integer PCM: normalize by the bit depth of the source words.
		// 16-bit divides by 32768, 24-bit by 8388608, mirroring the
		// playback engine's conversion rules.
		var maxVal float32
		var offset int
		switch s.bitDepth {
		case 8:
			// 8-bit WAV is unsigned
			maxVal = 128.0
			offset = -128
		case 16:
			maxVal = 32768.0
		case 24:
			maxVal = 8388608.0
		case 32:
			maxVal = 2147483648.0
		default:
			maxVal = 32768.0
		}

		for i := 0; i < n; i++ {
			dst[i] = float32(s.intBuf.Data[i]+offset) / maxVal
		}
	}

	if n < len(dst) && err == nil {
		return n, io.EOF
	}

	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	bitDepth := int(dec.BitDepth)
	floatFormat := dec.WavAudioFormat == ieeeFloatFormat
	if floatFormat && bitDepth != 32 {
		return nil, ErrUnsupportedBitDepth
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, ErrUnsupportedBitDepth
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locating wav data chunk: %w", err)
	}

	channels := int(dec.NumChans)
	if channels <= 0 {
		return nil, ErrNotWavFile
	}

	var totalFrames int64
	if bytesPerFrame := int64(channels) * int64(bitDepth/8); bytesPerFrame > 0 {
		totalFrames = dec.PCMLen() / bytesPerFrame
	}

	return &source{
		dec:         dec,
		sampleRate:  int(dec.SampleRate),
		channels:    channels,
		bitDepth:    bitDepth,
		floatFormat: floatFormat,
		totalFrames: totalFrames,
	}, nil
}
