// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// Source is a stream of interleaved PCM samples normalized to [-1, 1].
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0
	// with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// FrameSeeker is implemented by sources that can reposition their read
// head to an absolute frame without re-decoding from the start.
type FrameSeeker interface {
	SeekFrame(frame int64) error
}

// TotalFramer is implemented by sources that know their total length
// in frames (per channel) up front.
type TotalFramer interface {
	TotalFrames() int64
}

// BitDepther reports the bit depth of the encoded samples, for format
// inspection. Sources decoding to float natively may report 0.
type BitDepther interface {
	BitDepth() int
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps file extensions (without the dot, lowercase, e.g. "wav",
// "mp3", "ogg") to decoders.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(ext string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(ext)] = d
}

func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(ext)]
	return d, ok
}

// DecoderFor looks up a decoder by the extension of path.
// Returns ErrUnknownFormat if no decoder is registered for it.
func (r *Registry) DecoderFor(path string) (Decoder, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	d, ok := r.Get(ext)
	if !ok {
		return nil, ErrUnknownFormat
	}
	return d, nil
}

// SeekToFrame positions src at the given absolute frame, using SeekFrame
// when the source supports it and falling back to read-and-discard
// otherwise. The fallback assumes src is freshly decoded (at frame 0); it
// reports io.EOF if the stream ends before the target frame.
func SeekToFrame(src Source, frame int64) error {
	if frame <= 0 {
		return nil
	}

	if fs, ok := src.(FrameSeeker); ok {
		return fs.SeekFrame(frame)
	}

	channels := int64(src.Channels())
	scratch := make([]float32, 4096-4096%int(channels))
	remaining := frame * channels
	for remaining > 0 {
		want := int64(len(scratch))
		if want > remaining {
			want = remaining
		}
		read, err := src.ReadSamples(scratch[:want])
		remaining -= int64(read)
		if err != nil {
			return err
		}
		if read == 0 {
			return io.EOF
		}
	}
	return nil
}
