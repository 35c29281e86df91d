// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"errors"
	"math"
	"testing"
)

func TestToPixelResolution_Downsamples(t *testing.T) {
	t.Parallel()

	// 100 samples where samples[i] = i, folded onto 10 pixels: every
	// 10th sample survives.
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = float64(i)
	}

	pixels, err := ToPixelResolution(samples, 0, 10, 100)
	if err != nil {
		t.Fatalf("ToPixelResolution() error = %v", err)
	}
	if len(pixels) != 10 {
		t.Fatalf("ToPixelResolution() returned %d pixels, want 10", len(pixels))
	}
	for i, p := range pixels {
		if p != float64(i*10) {
			t.Errorf("pixels[%d] = %v, want %v", i, p, float64(i*10))
		}
	}
}

func TestToPixelResolution_SkipsPreRoll(t *testing.T) {
	t.Parallel()

	samples := make([]float64, 120)
	for i := range samples {
		samples[i] = float64(i)
	}

	// Skipping 20 leaves 100 samples over 10 pixels; the first pixel
	// reads samples[20].
	pixels, err := ToPixelResolution(samples, 20, 10, 120)
	if err != nil {
		t.Fatalf("ToPixelResolution() error = %v", err)
	}
	if pixels[0] != 20 {
		t.Errorf("pixels[0] = %v, want 20", pixels[0])
	}
	if pixels[9] != 110 {
		t.Errorf("pixels[9] = %v, want 110", pixels[9])
	}
}

func TestToPixelResolution_ZerosPastAvailable(t *testing.T) {
	t.Parallel()

	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = 1.0
	}

	// Only the first 50 samples are real audio; pixels mapping past
	// that stay zero.
	pixels, err := ToPixelResolution(samples, 0, 10, 50)
	if err != nil {
		t.Fatalf("ToPixelResolution() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if pixels[i] != 1.0 {
			t.Errorf("pixels[%d] = %v, want 1", i, pixels[i])
		}
	}
	for i := 5; i < 10; i++ {
		if pixels[i] != 0 {
			t.Errorf("pixels[%d] = %v, want 0 past available range", i, pixels[i])
		}
	}
}

func TestToPixelResolution_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		skip  int
		width int
	}{
		{"zero width", 0, 0},
		{"negative width", 0, -1},
		{"negative skip", -1, 10},
		{"skip past end", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ToPixelResolution(make([]float64, 10), tt.skip, tt.width, 10)
			if !errors.Is(err, ErrInvalidPixelRequest) {
				t.Errorf("ToPixelResolution() error = %v, want ErrInvalidPixelRequest", err)
			}
		})
	}
}

func TestSmoothPixels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"spike clamped", []float64{1, 5, 1}, []float64{1, 1, 1}},
		{"notch raised", []float64{5, 1, 5}, []float64{5, 5, 5}},
		{"monotonic untouched", []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}},
		{"plateau untouched", []float64{2, 2, 2}, []float64{2, 2, 2}},
		{"spike keeps larger neighbor", []float64{3, 5, 1}, []float64{3, 3, 1}},
		{"too short", []float64{9, 1}, []float64{9, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SmoothPixels(append([]float64(nil), tt.in...))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("SmoothPixels(%v)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSmoothPixels_DecidesAgainstOriginal(t *testing.T) {
	t.Parallel()

	// The second spike must be judged against the original first spike,
	// not its smoothed replacement.
	got := SmoothPixels([]float64{0, 4, 0, 4, 0})
	want := []float64{0, 0, 4, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SmoothPixels()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderingPeak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []float64
		skip int
		want float64
	}{
		{"pairwise minimum wins", []float64{1, 3, 2, 0.5}, 0, 2},
		{"isolated spike ignored", []float64{0.1, 9, 0.1, 0.1}, 0, 0.1},
		{"skip drops prefix", []float64{8, 8, 1, 2}, 2, 1},
		{"too short", []float64{5}, 0, 0},
		{"skip exhausts data", []float64{5, 5, 5}, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RenderingPeak(tt.in, tt.skip); got != tt.want {
				t.Errorf("RenderingPeak(%v, %d) = %v, want %v", tt.in, tt.skip, got, tt.want)
			}
		})
	}
}

func TestUpsample(t *testing.T) {
	t.Parallel()

	got, err := Upsample([]float64{0, 1}, 5)
	if err != nil {
		t.Fatalf("Upsample() error = %v", err)
	}
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Upsample()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUpsample_SingleValue(t *testing.T) {
	t.Parallel()

	got, err := Upsample([]float64{0.7}, 4)
	if err != nil {
		t.Fatalf("Upsample() error = %v", err)
	}
	for i, v := range got {
		if v != 0.7 {
			t.Errorf("Upsample()[%d] = %v, want 0.7", i, v)
		}
	}
}

func TestUpsample_Empty(t *testing.T) {
	t.Parallel()

	got, err := Upsample(nil, 3)
	if err != nil {
		t.Fatalf("Upsample() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Upsample() length = %d, want 3", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("Upsample()[%d] = %v, want 0", i, v)
		}
	}
}

func TestUpsample_InvalidTarget(t *testing.T) {
	t.Parallel()

	if _, err := Upsample([]float64{1}, 0); !errors.Is(err, ErrInvalidPixelRequest) {
		t.Errorf("Upsample() error = %v, want ErrInvalidPixelRequest", err)
	}
}

func TestPixelScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		height int
		peak   float64
		want   float64
	}{
		{"fills half height", 100, 0.5, 98},
		{"unit peak", 64, 1.0, 31},
		{"zero peak flatlines", 100, 0, 0},
		{"negative peak flatlines", 100, -1, 0},
		{"zero height", 0, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PixelScale(tt.height, tt.peak); got != tt.want {
				t.Errorf("PixelScale(%d, %v) = %v, want %v", tt.height, tt.peak, got, tt.want)
			}
		})
	}
}
