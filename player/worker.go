// SPDX-License-Identifier: EPL-2.0

package player

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annoplay/annoplay/engine"
)

type playbackMode int

const (
	modeMain playbackMode = iota
	modeShortInterval
)

const (
	pollInterval = 10 * time.Millisecond

	// progressPerSecond is the target progress event rate.
	progressPerSecond = 30

	// frameClampLimit guards against bogus positions some backends
	// report near their native 32-bit limit; anything above it is
	// clamped to the worker's end frame.
	frameClampLimit = math.MaxInt32

	// stopWaitTimeout bounds how long stopAndWait blocks for the
	// polling goroutine to exit.
	stopWaitTimeout = time.Second
)

// worker drives one playback request: it starts the backend, polls the
// audible position, reports progress, and detects the end of media.
type worker struct {
	player     *Player
	backend    Backend
	mode       playbackMode
	path       string
	startFrame int64
	endFrame   int64

	stopRequested atomic.Bool
	stopCh        chan struct{}
	stopOnce      sync.Once
	done          chan struct{}

	// hearing is the last audible absolute frame, strictly increasing.
	hearing atomic.Int64
}

func newWorker(p *Player, mode playbackMode, path string, startFrame, endFrame int64) *worker {
	w := &worker{
		player:     p,
		backend:    p.backend,
		mode:       mode,
		path:       path,
		startFrame: startFrame,
		endFrame:   endFrame,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
	w.hearing.Store(startFrame)
	return w
}

func (w *worker) run() {
	defer close(w.done)
	defer w.player.workerExited(w)

	if w.stopRequested.Load() {
		return
	}

	if res := w.backend.StartPlayback(w.path, w.startFrame, w.endFrame); res != engine.ResultOK {
		w.fail(fmt.Sprintf("starting playback of %s: %s", w.path, res))
		return
	}

	if w.stopRequested.Load() {
		w.backend.StopPlayback()
		return
	}

	var progressInterval int64
	if w.mode == modeMain {
		rate, err := w.backend.SampleRate()
		if err != nil {
			w.backend.StopPlayback()
			w.fail(fmt.Sprintf("querying sample rate: %v", err))
			return
		}
		progressInterval = int64(rate / progressPerSecond)
		if progressInterval <= 0 {
			progressInterval = 1
		}
	}

	first := true
	var lastProgress int64

	for {
		if w.stopRequested.Load() {
			return
		}

		if !w.backend.PlaybackInProgress() {
			// The backend keeps the decoded source open when the
			// stream runs dry on its own, so release it here.
			w.backend.StopPlayback()
			if w.mode == modeMain && !w.stopRequested.Load() {
				w.advanceHearing(w.endFrame)
				w.player.disp.Emit(Event{Type: EventEOM, Frame: w.endFrame})
			}
			return
		}

		if w.mode == modeMain {
			abs := w.startFrame + w.backend.StreamPosition()
			if abs > frameClampLimit {
				abs = w.endFrame
			}
			w.advanceHearing(abs)

			if first || abs-lastProgress >= progressInterval {
				first = false
				lastProgress = abs
				w.player.disp.Progress(w.hearing.Load())
			}
		}

		select {
		case <-w.stopCh:
			return
		case <-time.After(pollInterval):
		}
	}
}

// advanceHearing moves the hearing frame forward, never backward.
func (w *worker) advanceHearing(frame int64) {
	for {
		cur := w.hearing.Load()
		if frame <= cur || w.hearing.CompareAndSwap(cur, frame) {
			return
		}
	}
}

// fail stops the backend and reports the failure as an event.
func (w *worker) fail(msg string) {
	w.backend.StopPlayback()
	w.player.disp.Emit(Event{Type: EventError, Frame: -1, Message: msg})
}

// requestStop asks the polling loop to exit and interrupts its sleep.
func (w *worker) requestStop() {
	w.stopRequested.Store(true)
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// stopAndWait synchronously stops the backend and waits, bounded, for
// the polling goroutine to terminate. Returns the final hearing frame.
func (w *worker) stopAndWait() int64 {
	w.requestStop()

	if rel := w.backend.StopPlayback(); rel >= 0 {
		abs := w.startFrame + rel
		if abs > frameClampLimit {
			abs = w.endFrame
		}
		w.advanceHearing(abs)
	}

	select {
	case <-w.done:
	case <-time.After(stopWaitTimeout):
		w.player.log.Warn("playback worker did not exit in time", "path", w.path)
	}

	return w.hearing.Load()
}
