// SPDX-License-Identifier: EPL-2.0

package utils

import "testing"

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float32
		want int16
	}{
		{"zero", 0, 0},
		{"full scale positive", 1, 32767},
		{"full scale negative", -1, -32767},
		{"half scale positive", 0.5, 16383},
		{"half scale negative", -0.5, -16383},
		{"quarter scale", 0.25, 8191},
		{"clamps above one", 1.5, 32767},
		{"clamps below minus one", -1.5, -32767},
		{"clamps large positive", 1000, 32767},
		{"clamps large negative", -1000, -32767},
		{"small positive", 0.0001, 3},
		{"small negative", -0.0001, -3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Float32ToInt16(tt.in); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16Range(t *testing.T) {
	t.Parallel()

	// Every output over a dense sweep must stay inside int16 PCM range,
	// including inputs well outside [-1, 1].
	for i := -3000; i <= 3000; i++ {
		x := float32(i) / 1000
		got := Float32ToInt16(x)
		if got > 32767 || got < -32767 {
			t.Fatalf("Float32ToInt16(%v) = %d, outside [-32767, 32767]", x, got)
		}
	}
}

func TestFloat32ToInt16Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1)
	for i := -999; i <= 1000; i++ {
		x := float32(i) / 1000
		got := Float32ToInt16(x)
		if got < prev {
			t.Fatalf("Float32ToInt16 not monotonic at %v: %d < %d", x, got, prev)
		}
		prev = got
	}
}

func TestFloat32ToInt16Symmetry(t *testing.T) {
	t.Parallel()

	for _, x := range []float32{0.1, 0.25, 0.5, 0.75, 1, 2} {
		pos := Float32ToInt16(x)
		neg := Float32ToInt16(-x)
		if pos != -neg {
			t.Errorf("Float32ToInt16(±%v) asymmetric: %d vs %d", x, pos, neg)
		}
	}
}

func BenchmarkFloat32ToInt16(b *testing.B) {
	samples := make([]float32, 1024)
	for i := range samples {
		samples[i] = float32(i%200)/100 - 1
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Float32ToInt16(samples[i%len(samples)])
	}
}
