// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/annoplay/annoplay/audio"
)

// FormatInfo describes an audio file without playing it.
type FormatInfo struct {
	// Format is the lowercase file extension the decoder was chosen by,
	// e.g. "wav" or "mp3".
	Format string

	SampleRate int
	Channels   int

	// BitDepth of the encoded samples. 0 for formats that decode to
	// float natively.
	BitDepth int

	// TotalFrames per channel. 0 when the decoder cannot tell without a
	// full decode.
	TotalFrames int64
}

// DetectFormat opens path just long enough to read its stream
// parameters.
func (e *Engine) DetectFormat(path string) (FormatInfo, error) {
	dec, err := e.registry.DecoderFor(path)
	if err != nil {
		return FormatInfo{}, fmt.Errorf("%w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatInfo{}, fmt.Errorf("%w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return FormatInfo{}, fmt.Errorf("reading %s header: %w", path, err)
	}
	defer src.Close()

	info := FormatInfo{
		Format:     strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
	}
	if bd, ok := src.(audio.BitDepther); ok {
		info.BitDepth = bd.BitDepth()
	}
	if tf, ok := src.(audio.TotalFramer); ok {
		info.TotalFrames = tf.TotalFrames()
	}

	return info, nil
}
