// SPDX-License-Identifier: EPL-2.0

package waveform

import "math"

// SegmentWidthPx is the fixed pixel width of one cached waveform tile.
const SegmentWidthPx = 200

// prefetchSegments is the extra cache headroom beyond the visible
// tiles, two in each scroll direction.
const prefetchSegments = 4

// ScrollDirection is the user's travel direction through the timeline,
// used to prioritize prefetch.
type ScrollDirection int

const (
	ScrollForward ScrollDirection = iota
	ScrollBackward
)

func (d ScrollDirection) String() string {
	switch d {
	case ScrollForward:
		return "forward"
	case ScrollBackward:
		return "backward"
	default:
		return "unknown direction"
	}
}

// ViewportContext describes the visible slice of the timeline. It
// drives cache sizing and invalidation.
type ViewportContext struct {
	StartSeconds    float64
	EndSeconds      float64
	WidthPx         int
	HeightPx        int
	PixelsPerSecond int
	Direction       ScrollDirection
}

// capacity is the segment cache size this viewport calls for: the
// visible tile count plus prefetch headroom.
func (v ViewportContext) capacity() int {
	visible := int(math.Ceil(float64(v.WidthPx) / SegmentWidthPx))
	return visible + prefetchSegments
}

// SegmentKey identifies one rendered waveform tile. Tiles are only
// reusable at the exact scale and height they were rendered for, so
// both participate in equality.
type SegmentKey struct {
	StartSeconds    float64
	PixelsPerSecond int
	HeightPx        int
}

// Duration is the tile's time coverage in seconds.
func (k SegmentKey) Duration() float64 {
	return float64(SegmentWidthPx) / float64(k.PixelsPerSecond)
}

// EndSeconds is the tile's exclusive end time.
func (k SegmentKey) EndSeconds() float64 {
	return k.StartSeconds + k.Duration()
}
