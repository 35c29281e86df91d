// SPDX-License-Identifier: EPL-2.0

package player

import (
	"log/slog"
	"sync"
	"time"
)

// EventType classifies playback lifecycle events.
type EventType int

const (
	// EventOpened fires after a file is opened.
	EventOpened EventType = iota
	// EventPlaying fires when playback of a range starts.
	EventPlaying
	// EventStopped fires after an explicit stop, carrying the hearing frame.
	EventStopped
	// EventEOM fires when playback reaches the end of its range.
	EventEOM
	// EventError fires when playback fails.
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventOpened:
		return "opened"
	case EventPlaying:
		return "playing"
	case EventStopped:
		return "stopped"
	case EventEOM:
		return "end of media"
	case EventError:
		return "error"
	default:
		return "unknown event"
	}
}

// Event is one playback lifecycle notification. Frame is -1 when no
// position applies; Message is set for EventError only.
type Event struct {
	Type    EventType
	Frame   int64
	Message string
}

// Listener receives playback notifications. OnEvent is called from the
// dispatcher pool; OnProgress is called synchronously from the playback
// polling goroutine, roughly 30 times per second, and must return
// quickly.
type Listener interface {
	OnEvent(ev Event)
	OnProgress(frame int64)
}

const (
	dispatchWorkers = 2
	dispatchQueue   = 64
	drainTimeout    = time.Second
)

// Dispatcher fans playback notifications out to listeners. Lifecycle
// events go through a small worker pool so emitting never blocks the
// playback control path; when the queue is full delivery falls back to
// a dedicated goroutine. Progress bypasses the pool entirely.
//
// A panicking listener is logged and skipped; it never affects other
// listeners or the playback goroutine.
type Dispatcher struct {
	log *slog.Logger

	mu        sync.Mutex
	listeners []Listener
	closed    bool

	queue chan Event
	wg    sync.WaitGroup
}

func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	d := &Dispatcher{
		log:   log,
		queue: make(chan Event, dispatchQueue),
	}

	d.wg.Add(dispatchWorkers)
	for i := 0; i < dispatchWorkers; i++ {
		go func() {
			defer d.wg.Done()
			for ev := range d.queue {
				d.deliver(ev)
			}
		}()
	}

	return d
}

// AddListener registers l. Listeners are notified in registration order.
func (d *Dispatcher) AddListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// RemoveListener unregisters l by identity.
func (d *Dispatcher) RemoveListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, have := range d.listeners {
		if have == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

func (d *Dispatcher) snapshot() []Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Listener, len(d.listeners))
	copy(out, d.listeners)
	return out
}

// Emit queues a lifecycle event for asynchronous delivery. Never blocks.
func (d *Dispatcher) Emit(ev Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	select {
	case d.queue <- ev:
		d.mu.Unlock()
	default:
		// Queue full; deliver elastically so the caller never waits.
		d.wg.Add(1)
		d.mu.Unlock()
		go func() {
			defer d.wg.Done()
			d.deliver(ev)
		}()
	}
}

// Progress delivers a position update synchronously in the calling
// goroutine.
func (d *Dispatcher) Progress(frame int64) {
	for _, l := range d.snapshot() {
		d.safeProgress(l, frame)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	for _, l := range d.snapshot() {
		d.safeEvent(l, ev)
	}
}

func (d *Dispatcher) safeEvent(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("listener panicked during event", "event", ev.Type, "panic", r)
		}
	}()
	l.OnEvent(ev)
}

func (d *Dispatcher) safeProgress(l Listener, frame int64) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("listener panicked during progress", "frame", frame, "panic", r)
		}
	}()
	l.OnProgress(frame)
}

// Close stops accepting events and waits for in-flight deliveries, up
// to a bounded drain timeout.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(drainTimeout):
		d.log.Warn("dispatcher drain timed out")
	}
}
