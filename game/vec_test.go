package game

import (
	"math"
	"testing"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestVec2_Ops(t *testing.T) {
	tests := []struct {
		name string
		got  Vec2
		want Vec2
	}{
		{"add", Vec2{1, 2}.Add(Vec2{3, -1}), Vec2{4, 1}},
		{"sub", Vec2{1, 2}.Sub(Vec2{3, -1}), Vec2{-2, 3}},
		{"scale", Vec2{1, -2}.Scale(2.5), Vec2{2.5, -5}},
		{"mix zero", Vec2{2, 2}.Mix(Vec2{4, 4}, 0), Vec2{2, 2}},
		{"mix one", Vec2{2, 2}.Mix(Vec2{4, 4}, 1), Vec2{4, 4}},
		{"mix half", Vec2{2, 2}.Mix(Vec2{4, 4}, 0.5), Vec2{3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !almostEqual(tt.got.X, tt.want.X) || !almostEqual(tt.got.Y, tt.want.Y) {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestVec2_Len(t *testing.T) {
	if got := (Vec2{3, 4}).Len(); !almostEqual(got, 5) {
		t.Errorf("Len() = %v, want 5", got)
	}
	if got := (Vec2{}).Len(); got != 0 {
		t.Errorf("zero vector Len() = %v", got)
	}
}

func TestVec2_Normalize(t *testing.T) {
	n := Vec2{3, 4}.Normalize()
	if !almostEqual(n.Len(), 1) {
		t.Errorf("normalized length = %v, want 1", n.Len())
	}
	if !almostEqual(n.X, 0.6) || !almostEqual(n.Y, 0.8) {
		t.Errorf("normalized = %+v", n)
	}

	// Zero vector must not produce NaNs.
	z := Vec2{}.Normalize()
	if !z.IsZero() {
		t.Errorf("zero Normalize() = %+v, want zero", z)
	}
}
