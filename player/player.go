// SPDX-License-Identifier: EPL-2.0

package player

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/annoplay/annoplay/engine"
)

// Status is the externally visible player state.
type Status int

const (
	// StatusBusy is the initial state, before any file is opened.
	StatusBusy Status = iota
	// StatusReady means a file is open and playback may start.
	StatusReady
	// StatusPlaying means a main playback is running.
	StatusPlaying
)

func (s Status) String() string {
	switch s {
	case StatusBusy:
		return "busy"
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	default:
		return "unknown status"
	}
}

// Backend is the playback engine surface the player drives.
// engine.Engine satisfies it.
type Backend interface {
	StartPlayback(path string, startFrame, endFrame int64) engine.Result
	StopPlayback() int64
	StreamPosition() int64
	PlaybackInProgress() bool
	SampleRate() (int, error)
}

// FormatDetector is implemented by backends that can read a file's
// stream parameters without playing it. The player uses it to learn the
// total frame count on Open.
type FormatDetector interface {
	DetectFormat(path string) (engine.FormatInfo, error)
}

// Player arbitrates playback requests on one audio file. Main playback
// owns the transport: it moves the status to StatusPlaying and reports
// progress. Short-interval previews are fire-and-forget and are refused
// while main playback runs.
type Player struct {
	backend Backend
	disp    *Dispatcher
	log     *slog.Logger

	stateMu     sync.Mutex
	status      Status
	path        string
	totalFrames int64 // 0 when unknown

	// current is the active worker, main or short-interval. Compare
	// and swap keeps exactly one current under races between a new
	// request and a worker's self-termination.
	current atomic.Pointer[worker]
}

// New returns a player in StatusBusy driving backend.
func New(backend Backend) *Player {
	log := slog.Default()
	return &Player{
		backend: backend,
		disp:    NewDispatcher(log),
		log:     log,
		status:  StatusBusy,
	}
}

// Status returns the current player state.
func (p *Player) Status() Status {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.status
}

// AddListener registers a playback listener.
func (p *Player) AddListener(l Listener) {
	p.disp.AddListener(l)
}

// RemoveListener unregisters a playback listener.
func (p *Player) RemoveListener(l Listener) {
	p.disp.RemoveListener(l)
}

// Open points the player at path. The file must exist; its total frame
// count is refreshed best-effort. Fires EventOpened.
func (p *Player) Open(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	var total int64
	if fd, ok := p.backend.(FormatDetector); ok {
		if fi, err := fd.DetectFormat(path); err == nil && fi.TotalFrames > 0 {
			total = fi.TotalFrames
		} else if err != nil {
			p.log.Debug("format detection failed", "path", path, "error", err)
		}
	}

	p.stateMu.Lock()
	p.path = path
	p.totalFrames = total
	p.status = StatusReady
	p.stateMu.Unlock()

	p.disp.Emit(Event{Type: EventOpened, Frame: -1})
	return nil
}

// PlayAt starts main playback at startFrame, running to the last known
// frame of the file, or unbounded when the length is unknown. Ignored
// unless the player is StatusReady.
func (p *Player) PlayAt(startFrame int64) error {
	p.stateMu.Lock()
	end := int64(math.MaxInt64)
	if p.totalFrames > 0 {
		end = p.totalFrames - 1
	}
	p.stateMu.Unlock()

	return p.PlayRange(startFrame, end)
}

// PlayRange starts main playback of [startFrame, endFrame). Ignored
// unless the player is StatusReady; bad ranges return
// ErrInvalidFrameRange before the backend is touched.
func (p *Player) PlayRange(startFrame, endFrame int64) error {
	if startFrame < 0 || endFrame <= startFrame {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidFrameRange, startFrame, endFrame)
	}

	p.stateMu.Lock()
	if p.status != StatusReady {
		p.stateMu.Unlock()
		return nil
	}

	w := newWorker(p, modeMain, p.path, startFrame, endFrame)
	p.supersede(w)
	p.status = StatusPlaying
	p.stateMu.Unlock()

	go w.run()
	p.disp.Emit(Event{Type: EventPlaying, Frame: startFrame})
	return nil
}

// PlayShortInterval previews [startFrame, endFrame) without touching
// the transport: no status change, no progress events. Refused while
// main playback runs; intervals above MaxShortIntervalFrames return
// ErrIntervalTooLong.
func (p *Player) PlayShortInterval(startFrame, endFrame int64) error {
	if startFrame < 0 || endFrame <= startFrame {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidFrameRange, startFrame, endFrame)
	}
	if endFrame-startFrame > MaxShortIntervalFrames {
		return fmt.Errorf("%w: %d frames", ErrIntervalTooLong, endFrame-startFrame)
	}

	p.stateMu.Lock()
	if p.status != StatusReady {
		p.stateMu.Unlock()
		return nil
	}

	w := newWorker(p, modeShortInterval, p.path, startFrame, endFrame)
	p.supersede(w)
	p.stateMu.Unlock()

	go w.run()
	p.disp.Emit(Event{Type: EventPlaying, Frame: startFrame})
	return nil
}

// supersede requests stop on the current worker, if any, and installs
// w. Callers hold stateMu.
func (p *Player) supersede(w *worker) {
	for {
		old := p.current.Load()
		if old != nil {
			old.requestStop()
		}
		if p.current.CompareAndSwap(old, w) {
			return
		}
	}
}

// Stop halts main playback synchronously and returns the last audible
// frame, or NotPlaying if nothing was playing. Fires EventStopped.
func (p *Player) Stop() int64 {
	p.stateMu.Lock()
	if p.status != StatusPlaying {
		p.stateMu.Unlock()
		return NotPlaying
	}
	w := p.current.Load()
	p.stateMu.Unlock()

	hearing := NotPlaying
	if w != nil {
		hearing = w.stopAndWait()
	}

	p.stateMu.Lock()
	p.status = StatusReady
	p.stateMu.Unlock()

	p.disp.Emit(Event{Type: EventStopped, Frame: hearing})
	return hearing
}

// workerExited is called by a worker as it terminates, however it
// terminated. It clears the current slot and returns the transport to
// StatusReady for main workers.
func (p *Player) workerExited(w *worker) {
	p.current.CompareAndSwap(w, nil)

	if w.mode != modeMain {
		return
	}

	p.stateMu.Lock()
	if p.status == StatusPlaying {
		p.status = StatusReady
	}
	p.stateMu.Unlock()
}

// Close stops any playback and shuts the dispatcher down with a bounded
// drain.
func (p *Player) Close() {
	if w := p.current.Load(); w != nil {
		w.stopAndWait()
	}

	p.stateMu.Lock()
	if p.status == StatusPlaying {
		p.status = StatusReady
	}
	p.stateMu.Unlock()

	p.disp.Close()
}
