// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/annoplay/annoplay/audio"
)

// OutputMode selects how the engine produces audio.
type OutputMode int

const (
	// OutputAutodetect uses the real device when one can be opened and
	// falls back to silent output otherwise.
	OutputAutodetect OutputMode = iota

	// OutputDevice requires a real audio device.
	OutputDevice

	// OutputSilent simulates playback against the wall clock, for
	// headless and test environments.
	OutputSilent
)

const (
	deviceSampleRate  = 44100
	deviceChannels    = 2
	deviceBytesPerFrm = deviceChannels * 2 // 16-bit samples
)

// playbackChannel is one active playback on an output device.
type playbackChannel interface {
	// playing reports whether the channel is still producing audio.
	playing() bool
	// decodedFrames is the number of output-rate frames pulled from the
	// source chain so far.
	decodedFrames() int64
	// leadOutputFrames is the number of output-rate frames sitting in
	// the device buffer, decoded but not yet audible.
	leadOutputFrames() int64
	// outputRate is the device sample rate in Hz.
	outputRate() int
	// stop halts the channel. Idempotent.
	stop() error
}

// outputDevice starts playback channels for decoded sources.
type outputDevice interface {
	start(src audio.Source, rangeFrames int64) (playbackChannel, error)
}

// The oto context is process-wide, so it is created once and shared by
// every Engine that plays through a real device.
var otoShared struct {
	once sync.Once
	ctx  *oto.Context
	err  error
}

func sharedOtoContext() (*oto.Context, error) {
	otoShared.once.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   deviceSampleRate,
			ChannelCount: deviceChannels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoShared.err = fmt.Errorf("opening audio device: %w", err)
			return
		}
		<-ready
		otoShared.ctx = ctx
	})

	return otoShared.ctx, otoShared.err
}

// otoDevice plays through the shared oto context.
type otoDevice struct {
	ctx *oto.Context
}

func newOtoDevice() (*otoDevice, error) {
	ctx, err := sharedOtoContext()
	if err != nil {
		return nil, err
	}
	return &otoDevice{ctx: ctx}, nil
}

func (d *otoDevice) start(src audio.Source, rangeFrames int64) (playbackChannel, error) {
	counter, stream := buildOutputStream(src, rangeFrames, deviceSampleRate)

	player := d.ctx.NewPlayer(stream)
	player.Play()

	return &otoChannel{player: player, counter: counter}, nil
}

// otoChannel reads its decoded clock from the frames the player has
// pulled and its lead from the player's internal buffer.
type otoChannel struct {
	player  *oto.Player
	counter *countingSource

	mu      sync.Mutex
	stopped bool
}

func (c *otoChannel) playing() bool {
	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	return !stopped && c.player.IsPlaying()
}

func (c *otoChannel) decodedFrames() int64 {
	return c.counter.frames()
}

func (c *otoChannel) leadOutputFrames() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return 0
	}
	return int64(c.player.BufferedSize()) / deviceBytesPerFrm
}

func (c *otoChannel) outputRate() int { return deviceSampleRate }

func (c *otoChannel) stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return nil
	}
	c.stopped = true

	c.player.Pause()
	if err := c.player.Close(); err != nil {
		return fmt.Errorf("closing playback channel: %w", err)
	}
	return nil
}

// silentDevice simulates playback progression against the wall clock.
// Positions advance at the source rate with zero buffer lead.
type silentDevice struct{}

func (silentDevice) start(src audio.Source, rangeFrames int64) (playbackChannel, error) {
	return &silentChannel{
		rate:    src.SampleRate(),
		total:   rangeFrames,
		started: time.Now(),
	}, nil
}

type silentChannel struct {
	rate    int
	total   int64
	started time.Time

	mu        sync.Mutex
	stopped   bool
	stoppedAt int64
}

func (c *silentChannel) playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	return c.elapsedFrames() < c.total
}

func (c *silentChannel) decodedFrames() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return c.stoppedAt
	}
	return c.elapsedFrames()
}

// elapsedFrames must be called with mu held.
func (c *silentChannel) elapsedFrames() int64 {
	frames := int64(time.Since(c.started).Seconds() * float64(c.rate))
	if frames > c.total {
		frames = c.total
	}
	return frames
}

func (c *silentChannel) leadOutputFrames() int64 { return 0 }
func (c *silentChannel) outputRate() int         { return c.rate }

func (c *silentChannel) stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return nil
	}
	c.stoppedAt = c.elapsedFrames()
	c.stopped = true
	return nil
}
