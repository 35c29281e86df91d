package audio

// MonoMixer folds a multi-channel source down to mono by averaging the
// channels of each frame. The waveform pipeline reads chunks through it so
// pixel strips always see one sample per frame.
type MonoMixer struct {
	src     Source
	scratch []float32
}

// NewMonoMixer wraps src. A mono src is passed through untouched.
func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }
func (m *MonoMixer) Close() error    { return m.src.Close() }

// ReadSamples fills dst with one averaged sample per source frame. It
// returns the number of frames written and the source's error, so a short
// final read still delivers its frames alongside io.EOF.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	channels := m.src.Channels()
	if channels <= 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.scratch) < need {
		m.scratch = make([]float32, need)
	}
	n, err := m.src.ReadSamples(m.scratch[:need])
	if n == 0 {
		return 0, err
	}

	frames := n / channels
	inv := 1 / float32(channels)
	for f := 0; f < frames; f++ {
		base := f * channels
		sum := float32(0)
		for c := 0; c < channels; c++ {
			sum += m.scratch[base+c]
		}
		dst[f] = sum * inv
	}
	return frames, err
}
