// SPDX-License-Identifier: EPL-2.0

// Package player provides the playback transport on top of the engine:
// a small state machine arbitrating main playback against fire-and-forget
// short-interval previews, with listener notification.
//
// Main playback (PlayAt, PlayRange) owns the transport. It moves the
// player to StatusPlaying, polls the audible position on a background
// goroutine, and delivers progress to listeners about 30 times per
// second. Short-interval previews never change the visible status and
// never report progress; they are refused while main playback runs.
//
// Lifecycle events are delivered asynchronously through a small worker
// pool. Progress is delivered synchronously from the polling goroutine,
// in strictly increasing frame order. A playing event logically
// precedes the first progress update; stopped and end-of-media events
// follow the last one.
//
// # Usage
//
//	p := player.New(engine.New())
//	p.AddListener(myListener)
//	if err := p.Open("take.wav"); err != nil {
//	    // handle err
//	}
//	p.PlayAt(0)
//	// ...
//	hearing := p.Stop()
//	_ = hearing
//	p.Close()
package player
