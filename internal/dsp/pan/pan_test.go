package pan

import (
	"math"
	"testing"
)

func TestGains(t *testing.T) {
	tests := []struct {
		name                string
		p                   float32
		wantLeft, wantRight float32
	}{
		{"hard left", 0, 1, 0},
		{"hard right", 1, 0, 1},
		{"center", 0.5, 1, 1},
		{"quarter left-of-center", 0.25, 1, 0.5},
		{"quarter right-of-center", 0.75, 0.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := Gains(tt.p)
			if math.Abs(float64(left-tt.wantLeft)) > 1e-6 {
				t.Errorf("Gains(%v) left = %v, want %v", tt.p, left, tt.wantLeft)
			}
			if math.Abs(float64(right-tt.wantRight)) > 1e-6 {
				t.Errorf("Gains(%v) right = %v, want %v", tt.p, right, tt.wantRight)
			}
		})
	}
}

func TestWidthMono(t *testing.T) {
	left := []float32{0.5, -0.5, 1.0}
	right := []float32{0.5, -0.5, 1.0}
	if w := Width(left, right); w != 0 {
		t.Errorf("Width of identical L/R = %v, want 0", w)
	}
}

func TestBalanceCentered(t *testing.T) {
	left := []float32{0.5, 0.5}
	right := []float32{0.5, 0.5}
	if b := Balance(left, right); b != 0 {
		t.Errorf("Balance of equal L/R = %v, want 0", b)
	}
}
