// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	backgroundColor    = color.RGBA{255, 255, 255, 255}
	referenceLineColor = color.RGBA{0, 0, 0, 255}
	scaleLineColor     = color.RGBA{226, 224, 131, 255}
	scaleTextColor     = color.RGBA{0, 0, 0, 255}
	waveformColor      = color.RGBA{0, 0, 0, 255}
)

// renderTile paints one fixed-width tile: white background, per-second
// scale lines with time labels, the center reference line, and
// symmetric amplitude bars scaled by yScale.
func renderTile(strip []float64, key SegmentKey, yScale float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, SegmentWidthPx, key.HeightPx))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	drawTimeScale(img, key)

	centerY := key.HeightPx / 2
	hline(img, 0, SegmentWidthPx, centerY, referenceLineColor)

	for i, v := range strip {
		if i >= SegmentWidthPx {
			break
		}
		scaled := v * yScale
		top := centerY - int(scaled)
		bottom := centerY + int(scaled)
		vline(img, i, top, centerY, waveformColor)
		vline(img, i, centerY, bottom, waveformColor)
	}

	return img
}

// drawTimeScale paints a vertical line and a time label at every whole
// second inside the tile.
func drawTimeScale(img *image.RGBA, key SegmentKey) {
	pps := key.PixelsPerSecond
	if pps <= 0 {
		return
	}

	for x := 0; x < SegmentWidthPx; x += pps {
		vline(img, x, 0, key.HeightPx-1, scaleLineColor)

		seconds := key.StartSeconds + float64(x)/float64(pps)
		label := fmt.Sprintf("%.2fs", seconds)
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(scaleTextColor),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+5, key.HeightPx-5),
		}
		d.DrawString(label)
	}
}

func hline(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x < x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, c)
	}
}
