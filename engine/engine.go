// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/annoplay/annoplay/audio"
	"github.com/annoplay/annoplay/formats/aiff"
	"github.com/annoplay/annoplay/formats/mp3"
	"github.com/annoplay/annoplay/formats/vorbis"
	"github.com/annoplay/annoplay/formats/wav"
)

// DefaultRegistry returns a decoder registry covering every built-in
// format.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	return r
}

// Engine drives one playback channel on an output device and performs
// seek-and-read access to audio files for waveform decoding.
//
// Position queries report frames relative to the playback start frame,
// compensated for the output buffer so they track what the listener has
// actually heard rather than what has been decoded.
type Engine struct {
	mode     OutputMode
	registry *audio.Registry
	log      *slog.Logger

	// initMu guards lazy device initialization, which may block. It is
	// never held together with stateMu so a slow device open cannot
	// stall position polling.
	initMu   sync.Mutex
	initDone bool
	output   outputDevice

	// playMu serializes start/stop control flow.
	playMu sync.Mutex

	// stateMu guards the loaded sound and the active channel. Position
	// and progress queries take only this lock.
	stateMu     sync.Mutex
	ch          playbackChannel
	src         audio.Source
	srcRate     int
	startFrame  int64
	rangeFrames int64
	lastPos     int64
}

// New returns an engine that autodetects the audio device and falls back
// to silent output when none is available.
func New() *Engine {
	return NewWithOutput(OutputAutodetect)
}

// NewWithOutput returns an engine using the given output mode.
func NewWithOutput(mode OutputMode) *Engine {
	return &Engine{
		mode:     mode,
		registry: DefaultRegistry(),
		log:      slog.Default(),
		lastPos:  NoPosition,
	}
}

// ensureInit opens the output device on first use. Idempotent.
func (e *Engine) ensureInit() error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	if e.initDone {
		return nil
	}

	switch e.mode {
	case OutputSilent:
		e.output = silentDevice{}
	case OutputDevice:
		dev, err := newOtoDevice()
		if err != nil {
			return err
		}
		e.output = dev
	default:
		dev, err := newOtoDevice()
		if err != nil {
			e.log.Warn("no audio device, falling back to silent output", "error", err)
			e.output = silentDevice{}
		} else {
			e.output = dev
		}
	}

	e.initDone = true
	return nil
}

// openRaw decodes path through the registry. Callers seek on the
// returned source before wrapping it, so decoder seek capabilities stay
// visible to audio.SeekToFrame.
func (e *Engine) openRaw(path string) (audio.Source, *os.File, error) {
	dec, err := e.registry.DecoderFor(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return src, f, nil
}

// fileSource ties the decoded source to the file handle backing it.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// StartPlayback loads path, seeks to startFrame, and plays until
// endFrame (exclusive). Returns ResultOK on success or a negative Result
// describing the failure. Already-playing engines report
// ResultInconsistentState.
func (e *Engine) StartPlayback(path string, startFrame, endFrame int64) Result {
	e.playMu.Lock()
	defer e.playMu.Unlock()

	if startFrame < 0 || endFrame <= startFrame {
		return ResultUnspecified
	}

	if err := e.ensureInit(); err != nil {
		return ResultNoAudioDevice
	}

	e.stateMu.Lock()
	busy := e.ch != nil && e.ch.playing()
	e.stateMu.Unlock()
	if busy {
		return ResultInconsistentState
	}

	raw, f, err := e.openRaw(path)
	if err != nil {
		e.log.Debug("start playback failed", "path", path, "error", err)
		return ResultFileUnusable
	}
	if err := audio.SeekToFrame(raw, startFrame); err != nil {
		raw.Close()
		f.Close()
		e.log.Debug("start playback seek failed", "path", path, "frame", startFrame, "error", err)
		return ResultFileUnusable
	}
	src := &fileSource{Source: raw, f: f}

	rangeFrames := endFrame - startFrame
	ch, err := e.output.start(src, rangeFrames)
	if err != nil {
		src.Close()
		return ResultUnspecified
	}

	e.stateMu.Lock()
	if e.ch != nil {
		// A finished channel from the previous cycle; release it now.
		e.releaseLocked()
	}
	e.ch = ch
	e.src = src
	e.srcRate = src.SampleRate()
	e.startFrame = startFrame
	e.rangeFrames = rangeFrames
	e.lastPos = 0
	e.stateMu.Unlock()

	return ResultOK
}

// StopPlayback stops the active channel and releases the loaded sound.
// Returns the audible position relative to the start frame, or
// NoPosition when nothing was playing. Idempotent.
func (e *Engine) StopPlayback() int64 {
	e.playMu.Lock()
	defer e.playMu.Unlock()

	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	if e.ch == nil {
		return NoPosition
	}

	pos := e.audiblePositionLocked()
	e.lastPos = pos
	e.releaseLocked()
	return pos
}

// releaseLocked stops the channel and closes the source exactly once.
// Callers hold stateMu.
func (e *Engine) releaseLocked() {
	if e.ch == nil {
		return
	}
	if err := e.ch.stop(); err != nil {
		e.log.Warn("stopping playback channel", "error", err)
	}
	if err := e.src.Close(); err != nil {
		e.log.Warn("closing audio source", "error", err)
	}
	e.ch = nil
	e.src = nil
}

// audiblePositionLocked converts the channel's decoded clock to a
// source-frame position relative to the start frame, subtracting the
// output-buffer lead. Callers hold stateMu.
func (e *Engine) audiblePositionLocked() int64 {
	decodedOut := e.ch.decodedFrames()
	leadOut := e.ch.leadOutputFrames()
	outRate := int64(e.ch.outputRate())
	srcRate := int64(e.srcRate)

	decoded := roundRatio(decodedOut, srcRate, outRate)
	lead := roundRatio(leadOut, srcRate, outRate)
	if lead > decoded {
		lead = decoded
	}
	return decoded - lead
}

// roundRatio converts frames between rates, rounding to nearest.
func roundRatio(frames, num, den int64) int64 {
	if num == den || den == 0 {
		return frames
	}
	return (frames*num + den/2) / den
}

// StreamPosition returns the audible position relative to the start
// frame. When the position reaches the end of the requested range the
// sound is auto-released and the final position is returned from then
// on.
func (e *Engine) StreamPosition() int64 {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	if e.ch == nil {
		return e.lastPos
	}

	pos := e.audiblePositionLocked()
	if pos >= e.rangeFrames {
		pos = e.rangeFrames
		e.lastPos = pos
		e.releaseLocked()
		return pos
	}

	e.lastPos = pos
	return pos
}

// PlaybackInProgress reports whether the channel is playing and the
// audible position has not yet reached the end of the range. Reaching
// the end triggers the same auto-release as StreamPosition.
func (e *Engine) PlaybackInProgress() bool {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	if e.ch == nil {
		return false
	}

	pos := e.audiblePositionLocked()
	if pos >= e.rangeFrames {
		e.lastPos = e.rangeFrames
		e.releaseLocked()
		return false
	}

	return e.ch.playing()
}

// SampleRate returns the sample rate of the loaded sound. It fails when
// no sound is loaded or the source reports a non-positive rate.
func (e *Engine) SampleRate() (int, error) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	if e.src == nil {
		return 0, ErrNoSoundLoaded
	}
	if e.srcRate <= 0 {
		return 0, ErrBadSampleRate
	}
	return e.srcRate, nil
}

// Shutdown stops playback and releases held resources. The engine may
// be reused afterwards; the next StartPlayback re-initializes lazily.
func (e *Engine) Shutdown() {
	e.playMu.Lock()
	defer e.playMu.Unlock()

	e.stateMu.Lock()
	e.releaseLocked()
	e.lastPos = NoPosition
	e.stateMu.Unlock()

	e.initMu.Lock()
	e.output = nil
	e.initDone = false
	e.initMu.Unlock()
}
