// SPDX-License-Identifier: EPL-2.0

package annoplay

import (
	"image"

	"github.com/annoplay/annoplay/engine"
	"github.com/annoplay/annoplay/player"
	"github.com/annoplay/annoplay/waveform"
)

// Session bundles a playback engine with the event-driven player built
// on top of it, for applications that want both without wiring the
// layers themselves.
type Session struct {
	Engine *engine.Engine
	Player *player.Player
}

// NewSession creates a session with autodetected audio output. Hosts
// without a usable audio device fall back to silent wall-clock
// playback.
func NewSession() *Session {
	return NewSessionWithOutput(engine.OutputAutodetect)
}

// NewSessionWithOutput creates a session with an explicit output mode,
// e.g. engine.OutputSilent for headless environments.
func NewSessionWithOutput(mode engine.OutputMode) *Session {
	eng := engine.NewWithOutput(mode)
	return &Session{
		Engine: eng,
		Player: player.New(eng),
	}
}

// Waveform builds a waveform display for path, decoding through the
// session's engine. Close the returned Waveform when the file is no
// longer displayed.
func (s *Session) Waveform(path string, viewport waveform.ViewportContext) *waveform.Waveform {
	return waveform.New(path, s.Engine, viewport)
}

// Close stops playback and releases the audio device.
func (s *Session) Close() {
	s.Player.Close()
	s.Engine.Shutdown()
}

// RenderWaveform is a one-shot render of the given viewport of an audio
// file. It spins up a temporary silent engine, so it works headless and
// never touches the audio device.
func RenderWaveform(path string, viewport waveform.ViewportContext) (image.Image, error) {
	eng := engine.NewWithOutput(engine.OutputSilent)
	defer eng.Shutdown()

	w := waveform.New(path, eng, viewport)
	defer w.Close()

	return w.RenderViewport(viewport).Image()
}
